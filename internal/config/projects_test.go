package config

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestProjectsRegistry_Add(t *testing.T) {
	tests := []struct {
		name    string
		initial []Project
		add     Project
		wantErr error
		wantLen int
	}{
		{
			name:    "add first project",
			initial: []Project{},
			add:     Project{Name: "web", ID: "p-web"},
			wantLen: 1,
		},
		{
			name:    "add second project",
			initial: []Project{{Name: "existing", ID: "p-1"}},
			add:     Project{Name: "web", ID: "p-web", BaseURL: "http://tasks.internal"},
			wantLen: 2,
		},
		{
			name:    "duplicate name",
			initial: []Project{{Name: "web", ID: "p-1"}},
			add:     Project{Name: "web", ID: "p-2"},
			wantErr: ErrDuplicateProject,
			wantLen: 1,
		},
		{
			name:    "empty name",
			initial: []Project{},
			add:     Project{Name: "  ", ID: "p-1"},
			wantErr: ErrEmptyName,
			wantLen: 0,
		},
		{
			name:    "empty id",
			initial: []Project{},
			add:     Project{Name: "web"},
			wantErr: ErrEmptyID,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ProjectsRegistry{
				Projects: tt.initial,
			}

			err := reg.Add(tt.add)

			if err != tt.wantErr {
				t.Errorf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}

			if len(reg.Projects) != tt.wantLen {
				t.Errorf("Add() projects length = %d, want %d", len(reg.Projects), tt.wantLen)
			}

			// Check default is set for first project
			if tt.wantLen == 1 && tt.wantErr == nil {
				if reg.DefaultProject != tt.add.Name {
					t.Errorf("Add() default project = %s, want %s", reg.DefaultProject, tt.add.Name)
				}
			}
		})
	}
}

func TestProjectsRegistry_Remove(t *testing.T) {
	tests := []struct {
		name        string
		initial     []Project
		defaultProj string
		remove      string
		wantErr     error
		wantLen     int
		wantDefault string
	}{
		{
			name:        "remove non-default",
			initial:     []Project{{Name: "a", ID: "1"}, {Name: "b", ID: "2"}},
			defaultProj: "a",
			remove:      "b",
			wantLen:     1,
			wantDefault: "a",
		},
		{
			name:        "remove default promotes first remaining",
			initial:     []Project{{Name: "a", ID: "1"}, {Name: "b", ID: "2"}},
			defaultProj: "a",
			remove:      "a",
			wantLen:     1,
			wantDefault: "b",
		},
		{
			name:        "remove last project clears default",
			initial:     []Project{{Name: "a", ID: "1"}},
			defaultProj: "a",
			remove:      "a",
			wantLen:     0,
			wantDefault: "",
		},
		{
			name:        "not found",
			initial:     []Project{{Name: "a", ID: "1"}},
			defaultProj: "a",
			remove:      "zzz",
			wantErr:     ErrProjectNotFound,
			wantLen:     1,
			wantDefault: "a",
		},
		{
			name:        "empty name",
			initial:     []Project{{Name: "a", ID: "1"}},
			defaultProj: "a",
			remove:      "",
			wantErr:     ErrEmptyName,
			wantLen:     1,
			wantDefault: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ProjectsRegistry{Projects: tt.initial, DefaultProject: tt.defaultProj}

			err := reg.Remove(tt.remove)

			if err != tt.wantErr {
				t.Errorf("Remove() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(reg.Projects) != tt.wantLen {
				t.Errorf("Remove() projects length = %d, want %d", len(reg.Projects), tt.wantLen)
			}
			if reg.DefaultProject != tt.wantDefault {
				t.Errorf("Remove() default = %q, want %q", reg.DefaultProject, tt.wantDefault)
			}
		})
	}
}

func TestProjectsRegistry_SetDefault(t *testing.T) {
	reg := &ProjectsRegistry{Projects: []Project{{Name: "a", ID: "1"}, {Name: "b", ID: "2"}}, DefaultProject: "a"}

	if err := reg.SetDefault("b"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if reg.DefaultProject != "b" {
		t.Errorf("SetDefault() default = %s, want b", reg.DefaultProject)
	}

	if err := reg.SetDefault("missing"); err != ErrProjectNotFound {
		t.Errorf("SetDefault(missing) error = %v, want %v", err, ErrProjectNotFound)
	}
	if err := reg.SetDefault(""); err != ErrEmptyName {
		t.Errorf("SetDefault(\"\") error = %v, want %v", err, ErrEmptyName)
	}
}

func TestProjectsRegistry_GetDefault(t *testing.T) {
	reg := &ProjectsRegistry{Projects: []Project{{Name: "a", ID: "1"}}}
	if p := reg.GetDefault(); p != nil {
		t.Errorf("GetDefault() = %v, want nil", p)
	}

	reg.DefaultProject = "a"
	p := reg.GetDefault()
	if p == nil || p.ID != "1" {
		t.Errorf("GetDefault() = %v, want project a", p)
	}

	reg.DefaultProject = "stale"
	if p := reg.GetDefault(); p != nil {
		t.Errorf("GetDefault() with stale default = %v, want nil", p)
	}
}

func TestProjectsRegistry_Apply(t *testing.T) {
	reg := &ProjectsRegistry{
		Projects: []Project{
			{Name: "web", ID: "p-web"},
			{Name: "ops", ID: "p-ops", BaseURL: "http://ops.internal:9000"},
		},
		DefaultProject: "web",
	}

	tests := []struct {
		name        string
		ref         string
		wantID      string
		wantBaseURL string
	}{
		{"registry default", "", "p-web", "http://localhost:8420"},
		{"named project with its own backend", "ops", "p-ops", "http://ops.internal:9000"},
		{"raw project id", "p-raw", "p-raw", "http://localhost:8420"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			reg.Apply(cfg, tt.ref)

			if cfg.Project.ID != tt.wantID {
				t.Errorf("Project.ID = %s, want %s", cfg.Project.ID, tt.wantID)
			}
			if cfg.API.BaseURL != tt.wantBaseURL {
				t.Errorf("API.BaseURL = %s, want %s", cfg.API.BaseURL, tt.wantBaseURL)
			}
		})
	}

	t.Run("empty registry leaves config alone", func(t *testing.T) {
		cfg := DefaultConfig()
		(&ProjectsRegistry{}).Apply(cfg, "")
		if cfg.Project.ID != "default" {
			t.Errorf("Project.ID = %s, want default", cfg.Project.ID)
		}
	})
}

func TestLoadSaveProjectsRegistry(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "projects.json")

	// Override registryPath for testing
	originalRegistryPath := registryPath
	registryPath = func() (string, error) {
		return configPath, nil
	}
	defer func() { registryPath = originalRegistryPath }()

	// Test loading non-existent file
	reg, err := LoadProjectsRegistry()
	if err != nil {
		t.Fatalf("LoadProjectsRegistry() error = %v, want nil", err)
	}
	if len(reg.Projects) != 0 {
		t.Errorf("LoadProjectsRegistry() projects length = %d, want 0", len(reg.Projects))
	}

	if err := reg.Add(Project{Name: "web", ID: "p-web"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := SaveProjectsRegistry(reg); err != nil {
		t.Fatalf("SaveProjectsRegistry() error = %v", err)
	}

	loaded, err := LoadProjectsRegistry()
	if err != nil {
		t.Fatalf("LoadProjectsRegistry() error = %v", err)
	}
	if len(loaded.Projects) != 1 {
		t.Fatalf("LoadProjectsRegistry() projects length = %d, want 1", len(loaded.Projects))
	}
	if loaded.Projects[0].ID != "p-web" {
		t.Errorf("LoadProjectsRegistry() project id = %s, want p-web", loaded.Projects[0].ID)
	}
	if loaded.DefaultProject != "web" {
		t.Errorf("LoadProjectsRegistry() default project = %s, want web", loaded.DefaultProject)
	}
}

func TestProjectsRegistry_JSON(t *testing.T) {
	reg := &ProjectsRegistry{
		Projects:       []Project{{Name: "web", ID: "p-web"}},
		DefaultProject: "web",
	}

	data, err := json.Marshal(reg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"projects":[{"name":"web","id":"p-web"}],"defaultProject":"web"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
