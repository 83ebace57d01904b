// Package testutil provides reusable test utilities for Taskdeck tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnv provides access to isolated test directories
type TestEnv struct {
	Home       string // Mocked HOME directory
	ProjectDir string // Test project directory
	GlobalDir  string // ~/.taskdeck equivalent
	ProjectCfg string // .taskdeck in project
	t          *testing.T
}

// SetupTestEnv creates an isolated test environment with mocked HOME and
// working directory. Uses t.TempDir() for automatic cleanup and t.Setenv()
// for automatic env restoration.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpHome := t.TempDir()
	tmpProject := t.TempDir()

	globalDir := filepath.Join(tmpHome, ".taskdeck")
	projectCfg := filepath.Join(tmpProject, ".taskdeck")

	if err := os.MkdirAll(globalDir, 0755); err != nil {
		t.Fatalf("Failed to create global .taskdeck: %v", err)
	}
	if err := os.MkdirAll(projectCfg, 0755); err != nil {
		t.Fatalf("Failed to create project .taskdeck: %v", err)
	}

	t.Setenv("HOME", tmpHome)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}
	if err := os.Chdir(tmpProject); err != nil {
		t.Fatalf("Failed to chdir to project: %v", err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })

	return &TestEnv{
		Home:       tmpHome,
		ProjectDir: tmpProject,
		GlobalDir:  globalDir,
		ProjectCfg: projectCfg,
		t:          t,
	}
}

// WriteGlobalConfig writes content to the global config file.
func (e *TestEnv) WriteGlobalConfig(content string) {
	e.t.Helper()
	e.writeFile(filepath.Join(e.GlobalDir, "config.yaml"), content)
}

// WriteProjectConfig writes content to the project config file.
func (e *TestEnv) WriteProjectConfig(content string) {
	e.t.Helper()
	e.writeFile(filepath.Join(e.ProjectCfg, "config.yaml"), content)
}

func (e *TestEnv) writeFile(path, content string) {
	e.t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", path, err)
	}
}
