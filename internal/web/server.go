// Package web exposes the task operations as a JSON HTTP API, mirroring
// the MCP tool surface for non-MCP clients.
package web

import (
	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/service"
)

// Server is the Taskdeck web server
type Server struct {
	manager *service.Manager
	router  *gin.Engine
}

// NewServer creates a new web server
func NewServer(manager *service.Manager) *Server {
	router := gin.Default()

	s := &Server{
		manager: manager,
		router:  router,
	}

	api := router.Group("/api")
	{
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/next", s.handleNextTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id/description", s.handleUpdateDescription)
		api.POST("/tasks/:id/status", s.handleSetStatus)
		api.PUT("/tasks/:id/checklist", s.handleSyncChecklist)
		api.GET("/tasks/:id/checklist/next", s.handleNextItem)
		api.POST("/checklist/:id/complete", s.handleCompleteItem)
	}

	return s
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
