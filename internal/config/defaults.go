package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			Driver: "sqlite",
			Path:   defaultDBPath(),
		},
		Jira: JiraConfig{
			ProjectKey: "TASK",
		},
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskdeck.db"
	}
	return filepath.Join(home, ".taskdeck", "taskdeck.db")
}

// WriteDefault writes a commented starter configuration to a file
func WriteDefault(path string) error {
	content := `# Taskdeck Global Configuration
version: "1"

# Tracker backend: "jira" (remote), "sqlite" (local file), "memory" (ephemeral)
backend:
  driver: sqlite
  # path: ~/.taskdeck/taskdeck.db

# Jira Cloud connection (used when backend.driver = "jira").
# The API token is read from the JIRA_API_TOKEN environment variable.
jira:
  base_url: https://your-site.atlassian.net
  email: you@example.com
  project_key: TASK

# HTTP API server
web:
  host: 127.0.0.1
  port: 8787
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
