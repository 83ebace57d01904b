// taskdeck-mcp is the standalone MCP server binary. It speaks JSON-RPC on
// stdio, so all logging goes to stderr.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/jira"
	"github.com/taskdeck/taskdeck/internal/mcp"
	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stderr)
	log.Printf("taskdeck-mcp version %s starting...", Version)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	tr, err := buildTracker(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize tracker: %v", err)
	}
	defer tr.Close()

	sessionID := getEnv("TASKDECK_SESSION_ID", uuid.New().String())
	log.Printf("MCP session %s", sessionID)

	manager := service.NewManager(tr, cfg.Project.Name)
	server := mcp.NewServer(manager, sessionID)
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("MCP server error: %v", err)
	}
}

func buildTracker(ctx context.Context, cfg *config.Config) (tracker.Tracker, error) {
	switch cfg.Backend.Driver {
	case "jira":
		client := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, cfg.Jira.ProjectKey)
		if err := client.Verify(ctx); err != nil {
			return nil, err
		}
		return client, nil
	case "memory":
		return tracker.NewMemory(cfg.Jira.ProjectKey), nil
	default:
		return tracker.NewSQLite(cfg.Backend.Path, cfg.Jira.ProjectKey)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
