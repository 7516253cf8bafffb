package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrOffline      = errors.New("offline")
	ErrInvalidValue = errors.New("invalid value")
	ErrNotEditing   = errors.New("no cell is being edited")
)

// APIError represents a failed call to the task REST API
type APIError struct {
	Op      string // Operation: "fetch", "update", "delete", etc.
	TaskID  string // Optional: specific task ID
	Status  int    // HTTP status code, 0 if the request never completed
	Message string // Human-readable context
	Err     error  // Underlying error
}

func (e *APIError) Error() string {
	if e.TaskID != "" && e.Message != "" {
		return fmt.Sprintf("api %s [%s]: %s", e.Op, e.TaskID, e.Message)
	}
	if e.TaskID != "" && e.Err != nil {
		return fmt.Sprintf("api %s [%s]: %v", e.Op, e.TaskID, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api %s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("api %s failed", e.Op)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StoreError represents an error from the SQLite task store
type StoreError struct {
	Op     string
	TaskID string
	Err    error
}

func (e *StoreError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("store %s [%s]: %v", e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
