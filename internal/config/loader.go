package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Load loads and merges configuration from global and project sources,
// then applies environment overrides. Missing files are not errors.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		applyEnv(cfg)
		return cfg, nil // Return defaults if no home dir
	}

	cwd, err := os.Getwd()
	if err != nil {
		applyEnv(cfg)
		return cfg, nil // Return defaults if no cwd
	}

	// Load global config first. A broken file does not abort startup, but
	// the parse error is surfaced so a typo cannot silently change the
	// backend selection.
	globalPath := filepath.Join(home, ".taskdeck", "config.yaml")
	if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: ignoring %s: %v", globalPath, err)
	}

	// Load project config (overrides global)
	projectPath := filepath.Join(cwd, ".taskdeck", "config.yaml")
	if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: ignoring %s: %v", projectPath, err)
	}

	applyEnv(cfg)

	// Auto-detect project name if not set
	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(cwd)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// applyEnv applies environment overrides on top of file configuration.
// Credentials only ever come from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_BACKEND"); v != "" {
		cfg.Backend.Driver = v
	}
	if v := os.Getenv("TASKDECK_DB"); v != "" {
		cfg.Backend.Path = v
	}
	if v := os.Getenv("JIRA_BASE_URL"); v != "" {
		cfg.Jira.BaseURL = v
	}
	if v := os.Getenv("JIRA_EMAIL"); v != "" {
		cfg.Jira.Email = v
	}
	if v := os.Getenv("JIRA_PROJECT_KEY"); v != "" {
		cfg.Jira.ProjectKey = v
	}
	cfg.Jira.APIToken = os.Getenv("JIRA_API_TOKEN")

	if v := os.Getenv("TASKDECK_WEB_HOST"); v != "" {
		cfg.Web.Host = v
	}
	if v := os.Getenv("TASKDECK_WEB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Web.Port = port
		}
	}
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".taskdeck", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".taskdeck", "config.yaml")
}
