package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riordanpawley/tasktable/internal/domain"
	"github.com/riordanpawley/tasktable/internal/services/api"
	"github.com/riordanpawley/tasktable/internal/storage"
)

// newBackend wires a sqlite store behind the REST server and returns a client for it
func newBackend(t *testing.T) (*api.Client, *storage.TaskStore) {
	t.Helper()

	store, err := storage.NewTaskStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(NewServer(store, testLogger()).Handler())
	t.Cleanup(srv.Close)

	return api.NewClient(srv.URL, srv.Client(), testLogger()), store
}

func TestServer_EndToEnd(t *testing.T) {
	ctx := context.Background()
	client, store := newBackend(t)

	require.NoError(t, store.SaveUser(ctx, domain.Assignee{ID: "u-1", Name: "Ada"}))
	parentID := "p-1"
	for _, task := range []domain.Task{
		{ID: parentID, ProjectID: "proj", Title: "Parent", Priority: domain.PriorityHigh},
		{ID: "c-1", ProjectID: "proj", Title: "Child", ParentTaskID: &parentID},
		{ID: "p-2", ProjectID: "proj", Title: "Other"},
	} {
		_, err := store.Insert(ctx, task)
		require.NoError(t, err)
	}

	require.NoError(t, client.Health(ctx))

	t.Run("list returns top-level tasks", func(t *testing.T) {
		tasks, err := client.FetchTasks(ctx, "proj")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"p-1", "p-2"}, idsOf(tasks))
	})

	t.Run("subtasks are fetched per parent", func(t *testing.T) {
		subtasks, err := client.FetchSubtasks(ctx, parentID)
		require.NoError(t, err)
		require.Len(t, subtasks, 1)
		assert.Equal(t, "c-1", subtasks[0].ID)

		_, err = client.FetchSubtasks(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		users, err := client.FetchUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u-1", users[0].ID)
	})

	t.Run("update bumps version and rejects stale writes", func(t *testing.T) {
		status := domain.StatusInProgress
		assignee := "u-1"

		updated, err := client.UpdateTask(ctx, "p-2", domain.TaskUpdate{Status: &status, AssigneeID: &assignee}, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Equal(t, int64(2), updated.Version)
		require.NotNil(t, updated.Assignee)
		assert.Equal(t, "Ada", updated.Assignee.DisplayName())

		done := domain.StatusDone
		_, err = client.UpdateTask(ctx, "p-2", domain.TaskUpdate{Status: &done}, 1)
		assert.ErrorIs(t, err, domain.ErrConflict)

		current, err := store.Get(ctx, "p-2")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, current.Status)
	})

	t.Run("clearing a date sends null", func(t *testing.T) {
		due := domain.MustParseDate("2024-06-01")
		updated, err := client.UpdateTask(ctx, parentID, domain.TaskUpdate{DueDate: &due}, 0)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", domain.DateString(updated.DueDate))

		cleared, err := client.UpdateTask(ctx, parentID, domain.TaskUpdate{DueDate: &domain.Date{}}, updated.Version)
		require.NoError(t, err)
		assert.Nil(t, cleared.DueDate)
	})

	t.Run("unknown assignee is rejected", func(t *testing.T) {
		nobody := "u-404"
		_, err := client.UpdateTask(ctx, parentID, domain.TaskUpdate{AssigneeID: &nobody}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, client.DeleteTask(ctx, parentID))

		_, err := store.Get(ctx, "c-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = client.DeleteTask(ctx, parentID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func idsOf(tasks []domain.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
