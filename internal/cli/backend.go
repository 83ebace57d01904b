package cli

import (
	"context"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/jira"
	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

// buildManager constructs the service manager over the configured tracker
// backend. The returned cleanup closes the tracker.
func buildManager(ctx context.Context, cfg *config.Config) (*service.Manager, func(), error) {
	var tr tracker.Tracker

	switch cfg.Backend.Driver {
	case "jira":
		if cfg.Jira.BaseURL == "" || cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
			return nil, nil, fmt.Errorf("jira backend requires base_url, email, and JIRA_API_TOKEN")
		}
		client := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, cfg.Jira.ProjectKey)
		if err := client.Verify(ctx); err != nil {
			return nil, nil, err
		}
		tr = client

	case "memory":
		tr = tracker.NewMemory(cfg.Jira.ProjectKey)

	case "sqlite", "":
		sq, err := tracker.NewSQLite(cfg.Backend.Path, cfg.Jira.ProjectKey)
		if err != nil {
			return nil, nil, err
		}
		tr = sq

	default:
		return nil, nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}

	manager := service.NewManager(tr, cfg.Project.Name)
	cleanup := func() { tr.Close() }
	return manager, cleanup, nil
}

func loadManager(ctx context.Context) (*service.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return buildManager(ctx, cfg)
}
