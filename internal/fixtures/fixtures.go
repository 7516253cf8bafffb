// Package fixtures loads YAML seed data into a task store.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/riordanpawley/tasktable/internal/domain"
)

//go:embed sample.yaml
var sampleSeed []byte

// Seed is the top-level layout of a seed file
type Seed struct {
	Project string     `yaml:"project"`
	Users   []User     `yaml:"users,omitempty"`
	Tasks   []SeedTask `yaml:"tasks"`
}

// User is an assignable user
type User struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name,omitempty"`
	Email  string `yaml:"email,omitempty"`
	Avatar string `yaml:"avatar,omitempty"`
}

// SeedTask is a task with its subtasks nested underneath
type SeedTask struct {
	ID          string     `yaml:"id,omitempty"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Status      string     `yaml:"status,omitempty"`
	Priority    string     `yaml:"priority,omitempty"`
	Phase       *int       `yaml:"phase,omitempty"`
	Assignee    string     `yaml:"assignee,omitempty"`
	Start       string     `yaml:"start,omitempty"`
	Due         string     `yaml:"due,omitempty"`
	Subtasks    []SeedTask `yaml:"subtasks,omitempty"`
}

// Sink receives seeded users and tasks. storage.TaskStore satisfies it.
type Sink interface {
	SaveUser(ctx context.Context, user domain.Assignee) error
	Insert(ctx context.Context, task domain.Task) (domain.Task, error)
}

// Parse decodes a seed document
func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if strings.TrimSpace(seed.Project) == "" {
		return nil, fmt.Errorf("parse seed: %w: project is required", domain.ErrInvalidValue)
	}
	return &seed, nil
}

// LoadFile reads and parses the seed at path
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Sample returns the built-in demo seed
func Sample() *Seed {
	seed, err := Parse(sampleSeed)
	if err != nil {
		panic(err)
	}
	return seed
}

// Apply writes the users and then the tasks depth-first, so every subtask is
// inserted after its parent. It returns the number of tasks inserted.
func (s *Seed) Apply(ctx context.Context, sink Sink) (int, error) {
	for _, u := range s.Users {
		user := domain.Assignee{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.Avatar}
		if err := sink.SaveUser(ctx, user); err != nil {
			return 0, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	count := 0
	var insert func(tasks []SeedTask, parentID *string) error
	insert = func(tasks []SeedTask, parentID *string) error {
		for _, st := range tasks {
			task, err := st.toTask(s.Project, parentID)
			if err != nil {
				return err
			}
			created, err := sink.Insert(ctx, task)
			if err != nil {
				return fmt.Errorf("seed task %q: %w", st.Title, err)
			}
			count++

			id := created.ID
			if err := insert(st.Subtasks, &id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(s.Tasks, nil); err != nil {
		return count, err
	}
	return count, nil
}

func (st SeedTask) toTask(projectID string, parentID *string) (domain.Task, error) {
	task := domain.Task{
		ID:           st.ID,
		ProjectID:    projectID,
		Title:        st.Title,
		Description:  st.Description,
		Status:       domain.Status(st.Status),
		Priority:     domain.Priority(st.Priority),
		PhaseNumber:  st.Phase,
		ParentTaskID: parentID,
	}
	if st.Assignee != "" {
		assignee := st.Assignee
		task.AssigneeID = &assignee
	}

	var err error
	if task.StartDate, err = parseOptionalDate(st.Start); err != nil {
		return domain.Task{}, fmt.Errorf("seed task %q start: %w", st.Title, err)
	}
	if task.DueDate, err = parseOptionalDate(st.Due); err != nil {
		return domain.Task{}, fmt.Errorf("seed task %q due: %w", st.Title, err)
	}
	return task, nil
}

func parseOptionalDate(s string) (*domain.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
