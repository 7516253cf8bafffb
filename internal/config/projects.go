package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ProjectsRegistry holds named shortcuts for backend projects
type ProjectsRegistry struct {
	Projects       []Project `json:"projects"`
	DefaultProject string    `json:"defaultProject"`
}

// Project maps a short name to a backend project, optionally on its own backend
type Project struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	BaseURL string `json:"baseURL,omitempty"`
}

var (
	// ErrProjectNotFound is returned when a project doesn't exist in the registry
	ErrProjectNotFound = errors.New("project not found")
	// ErrDuplicateProject is returned when trying to add a project that already exists
	ErrDuplicateProject = errors.New("project already exists")
	// ErrEmptyName is returned when the project name is empty
	ErrEmptyName = errors.New("project name cannot be empty")
	// ErrEmptyID is returned when the backend project id is empty
	ErrEmptyID = errors.New("project id cannot be empty")
)

// LoadProjectsRegistry loads the projects registry from disk
// Returns an empty registry if the file doesn't exist
func LoadProjectsRegistry() (*ProjectsRegistry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}

	// Return empty registry if file doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &ProjectsRegistry{
			Projects:       []Project{},
			DefaultProject: "",
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var registry ProjectsRegistry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, err
	}
	if registry.Projects == nil {
		registry.Projects = []Project{}
	}

	return &registry, nil
}

// SaveProjectsRegistry saves the projects registry to disk
func SaveProjectsRegistry(reg *ProjectsRegistry) error {
	path, err := registryPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Add adds a new project to the registry
func (r *ProjectsRegistry) Add(project Project) error {
	project.Name = strings.TrimSpace(project.Name)
	project.ID = strings.TrimSpace(project.ID)
	if project.Name == "" {
		return ErrEmptyName
	}
	if project.ID == "" {
		return ErrEmptyID
	}

	for _, p := range r.Projects {
		if p.Name == project.Name {
			return ErrDuplicateProject
		}
	}

	r.Projects = append(r.Projects, project)

	// Set as default if it's the first project
	if len(r.Projects) == 1 {
		r.DefaultProject = project.Name
	}

	return nil
}

// Remove removes a project from the registry
func (r *ProjectsRegistry) Remove(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	found := false
	for i, p := range r.Projects {
		if p.Name == name {
			r.Projects = append(r.Projects[:i], r.Projects[i+1:]...)
			found = true
			break
		}
	}

	if !found {
		return ErrProjectNotFound
	}

	// Clear default if it was the removed project
	if r.DefaultProject == name {
		r.DefaultProject = ""
		if len(r.Projects) > 0 {
			r.DefaultProject = r.Projects[0].Name
		}
	}

	return nil
}

// SetDefault sets the default project
func (r *ProjectsRegistry) SetDefault(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, err := r.Get(name); err != nil {
		return err
	}

	r.DefaultProject = name
	return nil
}

// Get retrieves a project by name
func (r *ProjectsRegistry) Get(name string) (*Project, error) {
	for _, p := range r.Projects {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, ErrProjectNotFound
}

// GetDefault returns the default project, or nil if none is set
func (r *ProjectsRegistry) GetDefault() *Project {
	if r.DefaultProject == "" {
		return nil
	}
	p, err := r.Get(r.DefaultProject)
	if err != nil {
		return nil
	}
	return p
}

// Apply points cfg at the project selected by ref. ref may be a registered
// name or a raw backend project id; an empty ref selects the registry default
// and leaves cfg untouched when there is none.
func (r *ProjectsRegistry) Apply(cfg *Config, ref string) {
	var project *Project
	if ref == "" {
		project = r.GetDefault()
	} else if p, err := r.Get(ref); err == nil {
		project = p
	} else {
		cfg.Project.ID = ref
		return
	}

	if project == nil {
		return
	}
	cfg.Project.ID = project.ID
	if project.BaseURL != "" {
		cfg.API.BaseURL = project.BaseURL
	}
}

// registryPath is a variable holding the function that returns the path to the projects registry file
// This allows it to be overridden in tests
var registryPath = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tasktable", "projects.json"), nil
}
