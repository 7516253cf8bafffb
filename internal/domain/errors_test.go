package domain

import (
	"errors"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  APIError
		want string
	}{
		{
			name: "with task ID",
			err:  APIError{Op: "update", TaskID: "t-1", Message: "version mismatch"},
			want: "api update [t-1]: version mismatch",
		},
		{
			name: "with task ID and underlying error",
			err:  APIError{Op: "delete", TaskID: "t-2", Err: ErrNotFound},
			want: "api delete [t-2]: not found",
		},
		{
			name: "with message only",
			err:  APIError{Op: "fetch", Message: "timeout"},
			want: "api fetch: timeout",
		},
		{
			name: "with underlying error",
			err:  APIError{Op: "health", Err: errors.New("connection refused")},
			want: "api health: connection refused",
		},
		{
			name: "minimal",
			err:  APIError{Op: "subtasks"},
			want: "api subtasks failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	var err error = &APIError{Op: "update", TaskID: "t-1", Status: 409, Err: ErrConflict}

	if !errors.Is(err, ErrConflict) {
		t.Error("errors.Is(err, ErrConflict) = false, want true")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 409 {
		t.Errorf("errors.As() = %v, want status 409", apiErr)
	}
}

func TestStoreError(t *testing.T) {
	err := &StoreError{Op: "get", TaskID: "t-9", Err: ErrNotFound}
	if got := err.Error(); got != "store get [t-9]: not found" {
		t.Errorf("StoreError.Error() = %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("StoreError should unwrap to ErrNotFound")
	}

	bare := &StoreError{Op: "migrate", Err: errors.New("disk full")}
	if got := bare.Error(); got != "store migrate: disk full" {
		t.Errorf("StoreError.Error() = %q", got)
	}
}
