package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/task"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type checklistRequest struct {
	Items []string `json:"items"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := s.manager.AddTask(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": t})
}

func (s *Server) handleListTasks(c *gin.Context) {
	filter := c.DefaultQuery("filter", "all")

	tasks, message, err := s.manager.GetTasks(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":   tasks,
		"count":   len(tasks),
		"message": message,
	})
}

func (s *Server) handleNextTask(c *gin.Context) {
	t, ok, err := s.manager.NextTask(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{
		"available": ok,
		"message":   service.NextTaskMessage(t, ok, s.manager.Project()),
	}
	if ok {
		resp["task"] = t
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.manager.TaskStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (s *Server) handleUpdateDescription(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := s.manager.UpdateDescription(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (s *Server) handleSetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := task.ParseStatus(req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	t, err := s.manager.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (s *Server) handleSyncChecklist(c *gin.Context) {
	var req checklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.manager.SyncChecklist(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parent":  result.Parent,
		"items":   result.Items,
		"created": result.Created,
	})
}

func (s *Server) handleNextItem(c *gin.Context) {
	id := c.Param("id")

	item, ok, err := s.manager.NextUncheckedItem(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{
		"available": ok,
		"message":   service.NextItemMessage(id, item, ok),
	}
	if ok {
		resp["item"] = item
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCompleteItem(c *gin.Context) {
	t, err := s.manager.CompleteChecklistItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": t})
}

// abortWithError maps domain errors onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrValidation),
		errors.Is(err, task.ErrInvalidFilter),
		errors.Is(err, task.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, task.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, task.ErrBackendUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
