package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTaskStore creates a SQLite database in a temp dir for testing
func createTestTaskStore(t *testing.T) *TaskStore {
	t.Helper()

	store, err := NewTaskStore(filepath.Join(t.TempDir(), "nested", "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tick := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return store
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

// seedTestTasks inserts a parent with two subtasks and a second parent
func seedTestTasks(t *testing.T, store *TaskStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, domain.Assignee{ID: "u-1", Name: "Ada", Email: "ada@example.com"}))

	due := domain.MustParseDate("2024-04-01")
	tasks := []domain.Task{
		{ID: "p-1", ProjectID: "proj", Title: "Authentication", Priority: domain.PriorityHigh,
			PhaseNumber: intPtr(1), AssigneeID: strPtr("u-1"), DueDate: &due},
		{ID: "c-1", ProjectID: "proj", Title: "Login form", ParentTaskID: strPtr("p-1")},
		{ID: "c-2", ProjectID: "proj", Title: "Session cookie", ParentTaskID: strPtr("p-1"), Status: domain.StatusDone},
		{ID: "p-2", ProjectID: "proj", Title: "Billing"},
		{ID: "x-1", ProjectID: "other", Title: "Elsewhere"},
	}
	for _, task := range tasks {
		_, err := store.Insert(ctx, task)
		require.NoError(t, err, "seed %s", task.ID)
	}
}

func taskIDs(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTaskStore_InsertAndGet(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)

	task, err := store.Get(context.Background(), "p-1")
	require.NoError(t, err)

	assert.Equal(t, "Authentication", task.Title)
	assert.Equal(t, domain.StatusTodo, task.Status, "status defaults to todo")
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, int64(1), task.Version)
	require.NotNil(t, task.PhaseNumber)
	assert.Equal(t, 1, *task.PhaseNumber)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "Ada", task.Assignee.Name)
	assert.Equal(t, "2024-04-01", domain.DateString(task.DueDate))
	assert.Nil(t, task.StartDate)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskStore_InsertGeneratesID(t *testing.T) {
	store := createTestTaskStore(t)

	task, err := store.Insert(context.Background(), domain.Task{ProjectID: "proj", Title: "New"})

	require.NoError(t, err)
	assert.Len(t, task.ID, 36)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
}

func TestTaskStore_InsertValidates(t *testing.T) {
	store := createTestTaskStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		task domain.Task
	}{
		{"missing project", domain.Task{Title: "x"}},
		{"blank title", domain.Task{ProjectID: "p", Title: "  "}},
		{"bad status", domain.Task{ProjectID: "p", Title: "x", Status: "blocked"}},
		{"bad priority", domain.Task{ProjectID: "p", Title: "x", Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Insert(ctx, tt.task)
			assert.ErrorIs(t, err, domain.ErrInvalidValue)
		})
	}
}

func TestTaskStore_GetNotFound(t *testing.T) {
	store := createTestTaskStore(t)

	_, err := store.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "get", storeErr.Op)
}

func TestTaskStore_List(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	parents, err := store.List(ctx, "proj", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1", "p-2"}, taskIDs(parents))

	all, err := store.List(ctx, "proj", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1", "c-1", "c-2", "p-2"}, taskIDs(all))

	none, err := store.List(ctx, "empty", true)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTaskStore_Children(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	children, err := store.Children(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, taskIDs(children))
	require.NotNil(t, children[0].ParentTaskID)
	assert.Equal(t, "p-1", *children[0].ParentTaskID)

	children, err = store.Children(ctx, "p-2")
	require.NoError(t, err)
	assert.Empty(t, children)

	_, err = store.Children(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskStore_Update(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	status := domain.StatusInProgress
	start := domain.MustParseDate("2024-03-05")
	updated, err := store.Update(ctx, "p-1", domain.TaskUpdate{Status: &status, StartDate: &start, DueDate: &domain.Date{}}, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, "2024-03-05", domain.DateString(updated.StartDate))
	assert.Nil(t, updated.DueDate, "zero date clears the field")
	assert.Equal(t, int64(2), updated.Version)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, "Ada", updated.Assignee.Name, "untouched fields survive")
}

func TestTaskStore_UpdateVersionConflict(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	status := domain.StatusDone
	_, err := store.Update(ctx, "p-1", domain.TaskUpdate{Status: &status}, 1)
	require.NoError(t, err)

	_, err = store.Update(ctx, "p-1", domain.TaskUpdate{Status: &status}, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// version 0 skips the check
	_, err = store.Update(ctx, "p-1", domain.TaskUpdate{Status: &status}, 0)
	assert.NoError(t, err)
}

func TestTaskStore_UpdateAssignee(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	unknown := "u-404"
	_, err := store.Update(ctx, "p-2", domain.TaskUpdate{AssigneeID: &unknown}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	known := "u-1"
	task, err := store.Update(ctx, "p-2", domain.TaskUpdate{AssigneeID: &known}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Ada", task.Assignee.DisplayName())

	unassign := ""
	task, err = store.Update(ctx, "p-2", domain.TaskUpdate{AssigneeID: &unassign}, 0)
	require.NoError(t, err)
	assert.Nil(t, task.Assignee)
	assert.Nil(t, task.AssigneeID)
}

func TestTaskStore_UpdateNotFound(t *testing.T) {
	store := createTestTaskStore(t)
	status := domain.StatusDone

	_, err := store.Update(context.Background(), "nope", domain.TaskUpdate{Status: &status}, 0)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskStore_DeleteCascades(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "p-1"))

	all, err := store.List(ctx, "proj", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2"}, taskIDs(all))

	assert.ErrorIs(t, store.Delete(ctx, "p-1"), domain.ErrNotFound)
}

func TestTaskStore_Users(t *testing.T) {
	store := createTestTaskStore(t)
	seedTestTasks(t, store)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, domain.Assignee{ID: "u-2", Name: "Bob"}))
	assert.ErrorIs(t, store.SaveUser(ctx, domain.Assignee{}), domain.ErrInvalidValue)

	users, err := store.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ada", users[0].Name)
}

func TestNewTaskStore_Memory(t *testing.T) {
	store, err := NewTaskStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Insert(context.Background(), domain.Task{ProjectID: "p", Title: "in memory"})
	assert.NoError(t, err)
}
