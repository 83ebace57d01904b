package config

// Config represents the full Taskdeck configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Backend selection and settings
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`

	// Jira connection (used when backend.driver = "jira")
	Jira JiraConfig `yaml:"jira" mapstructure:"jira"`

	// Web API server settings
	Web WebConfig `yaml:"web" mapstructure:"web"`

	// Project-specific settings (only in project config)
	Project ProjectConfig `yaml:"project" mapstructure:"project"`
}

// BackendConfig selects the tracker behind the tool surface
type BackendConfig struct {
	// Driver is one of "jira", "sqlite", "memory"
	Driver string `yaml:"driver" mapstructure:"driver"`

	// Path is the database file for the sqlite driver
	Path string `yaml:"path" mapstructure:"path"`
}

// JiraConfig holds Jira Cloud connection settings. The API token is never
// written to config files; it comes from the JIRA_API_TOKEN environment
// variable.
type JiraConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Email      string `yaml:"email" mapstructure:"email"`
	APIToken   string `yaml:"-" mapstructure:"-"`
	ProjectKey string `yaml:"project_key" mapstructure:"project_key"`
}

// WebConfig configures the HTTP API server
type WebConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// ProjectConfig holds project-specific settings
type ProjectConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}
