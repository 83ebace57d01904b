package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/mcp"
	"github.com/taskdeck/taskdeck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries JSON-RPC; all logging goes to stderr.
		log.SetOutput(os.Stderr)

		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		sessionID := os.Getenv("TASKDECK_SESSION_ID")
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		log.Printf("MCP session %s", sessionID)

		server := mcp.NewServer(manager, sessionID)
		if err := server.Run(cmd.Context()); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		manager, cleanup, err := buildManager(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		log.Printf("taskdeck web listening on %s", addr)
		return web.NewServer(manager).Run(addr)
	},
}
