package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riordanpawley/tasktable/internal/config"
	"github.com/riordanpawley/tasktable/internal/fixtures"
	"github.com/riordanpawley/tasktable/internal/server"
	"github.com/riordanpawley/tasktable/internal/services/api"
	"github.com/riordanpawley/tasktable/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDemoBackend serves the sample project from an in-memory store
func newDemoBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewTaskStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = fixtures.Sample().Apply(context.Background(), store)
	require.NoError(t, err)

	srv := httptest.NewServer(server.NewServer(store, discardLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// isolate points the registry and config lookups at fresh directories
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return t.TempDir()
}

func runCmd(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func testDeps(t *testing.T, baseURL string) *Dependencies {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Project.ID = "demo"
	cfg.API.BaseURL = baseURL
	deps := &Dependencies{Config: cfg, Logger: discardLogger()}
	deps.Client = api.NewClient(baseURL, &http.Client{Timeout: 5 * time.Second}, deps.Logger)
	return deps
}

var listNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func TestListTasks(t *testing.T) {
	srv := newDemoBackend(t)

	tests := []struct {
		name    string
		opts    listOptions
		want    []string
		notWant []string
		order   []string
	}{
		{
			name:  "all parents in creation order",
			opts:  listOptions{},
			want:  []string{"TITLE", "STATUS", "Authentication", "Billing", "Release checklist", "5 of 5 tasks in demo"},
			order: []string{"Authentication", "Billing", "Onboarding docs", "Retire legacy API", "Release checklist"},
		},
		{
			name:    "status filter",
			opts:    listOptions{status: "todo"},
			want:    []string{"Billing", "Release checklist", "2 of 5 tasks"},
			notWant: []string{"Authentication", "Onboarding docs"},
		},
		{
			name:    "phase none",
			opts:    listOptions{phase: "none"},
			want:    []string{"Release checklist", "1 of 5 tasks"},
			notWant: []string{"Billing"},
		},
		{
			name:  "priority descending",
			opts:  listOptions{sort: "priority", desc: true},
			order: []string{"Release checklist", "Authentication", "Billing", "Onboarding docs"},
		},
		{
			name:    "search",
			opts:    listOptions{search: "SIGN-IN"},
			want:    []string{"Authentication", "1 of 5 tasks"},
			notWant: []string{"Billing"},
		},
		{
			name:  "expanded with aggregates",
			opts:  listOptions{expand: true},
			want:  []string{"└ Login form", "└ Payment provider", "[1/3 done", "Ada Lovelace", "10 of 10 tasks"},
			order: []string{"Authentication", "Login form", "Session cookies", "Password reset", "Billing", "Invoice template"},
		},
		{
			name: "no matches",
			opts: listOptions{search: "nothing like this"},
			want: []string{"No tasks match the current filters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := listTasks(context.Background(), testDeps(t, srv.URL), &tt.opts, listNow, &out)
			require.NoError(t, err)

			got := out.String()
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
			last := -1
			for _, title := range tt.order {
				idx := strings.Index(got, title)
				require.GreaterOrEqual(t, idx, 0, "missing %q", title)
				assert.Greater(t, idx, last, "%q out of order", title)
				last = idx
			}
		})
	}
}

func TestListTasks_OverdueMarker(t *testing.T) {
	srv := newDemoBackend(t)

	var out bytes.Buffer
	opts := listOptions{expand: true}
	require.NoError(t, listTasks(context.Background(), testDeps(t, srv.URL), &opts, listNow, &out))

	got := out.String()
	assert.Contains(t, got, "2026-10-10 !")
	assert.NotContains(t, got, "2026-10-31 !")
	assert.Contains(t, got, "1 overdue")
}

func TestListTasks_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		opts listOptions
	}{
		{name: "status", opts: listOptions{status: "blocked"}},
		{name: "priority", opts: listOptions{priority: "urgent"}},
		{name: "phase", opts: listOptions{phase: "zero"}},
		{name: "sort", opts: listOptions{sort: "title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Flags are rejected before the backend is contacted
			deps := testDeps(t, "http://127.0.0.1:1")
			err := listTasks(context.Background(), deps, &tt.opts, listNow, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestListTasks_BackendDown(t *testing.T) {
	srv := newDemoBackend(t)
	url := srv.URL
	srv.Close()

	err := listTasks(context.Background(), testDeps(t, url), &listOptions{}, listNow, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch tasks")
}

func TestListCommand(t *testing.T) {
	srv := newDemoBackend(t)
	dir := isolate(t)

	out, err := runCmd(t, dir, "list", "--project", "demo", "--base-url", srv.URL, "--priority", "critical")
	require.NoError(t, err)
	assert.Contains(t, out, "Release checklist")
	assert.NotContains(t, out, "Billing")
}

func TestListCommand_UsesRegisteredProject(t *testing.T) {
	srv := newDemoBackend(t)
	dir := isolate(t)

	_, err := runCmd(t, dir, "project", "add", "sample", "demo", "--base-url", srv.URL)
	require.NoError(t, err)

	// The first registered project becomes the default
	out, err := runCmd(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "5 of 5 tasks in demo")
}

func TestProjectCommands(t *testing.T) {
	dir := isolate(t)

	out, err := runCmd(t, dir, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects registered")

	_, err = runCmd(t, dir, "project", "add", "web", "proj-web")
	require.NoError(t, err)
	_, err = runCmd(t, dir, "project", "add", "api", "proj-api", "--base-url", "http://api.local:8420")
	require.NoError(t, err)

	_, err = runCmd(t, dir, "project", "add", "web", "other")
	assert.ErrorIs(t, err, config.ErrDuplicateProject)

	out, err = runCmd(t, dir, "project", "default", "api")
	require.NoError(t, err)
	assert.Contains(t, out, "Default project is now api")

	reg, err := config.LoadProjectsRegistry()
	require.NoError(t, err)
	assert.Equal(t, "api", reg.DefaultProject)
	require.Len(t, reg.Projects, 2)

	out, err = runCmd(t, dir, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "http://api.local:8420")
	assert.Contains(t, out, "proj-web")

	_, err = runCmd(t, dir, "project", "remove", "api")
	require.NoError(t, err)
	_, err = runCmd(t, dir, "project", "remove", "api")
	assert.ErrorIs(t, err, config.ErrProjectNotFound)

	reg, err = config.LoadProjectsRegistry()
	require.NoError(t, err)
	assert.Equal(t, "web", reg.DefaultProject)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)

	out, err := runCmd(t, dir, "config", "init", "--project", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, configFileName)
	assert.FileExists(t, filepath.Join(dir, configFileName))

	_, err = runCmd(t, dir, "config", "init")
	assert.Error(t, err, "init must not overwrite without --force")

	// --force rewrites from defaults; flags not given are not carried over
	_, err = runCmd(t, dir, "config", "init", "--force")
	require.NoError(t, err)
	out, err = runCmd(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "id: default")

	_, err = runCmd(t, dir, "config", "init", "--force", "--project", "demo")
	require.NoError(t, err)

	out, err = runCmd(t, dir, "config", "show", "--base-url", "http://tasks.local:9000")
	require.NoError(t, err)
	assert.Contains(t, out, "baseURL: http://tasks.local:9000")
	assert.Contains(t, out, "id: demo")

	out, err = runCmd(t, dir, "config", "show", "--json", "--project", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "demo"`)
}

func TestConfigShow_InvalidLevel(t *testing.T) {
	dir := isolate(t)

	_, err := runCmd(t, dir, "config", "show", "--log-level", "loud")
	assert.Error(t, err)
}

func TestOpenStore_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	so := &serveOptions{db: filepath.Join(t.TempDir(), "tasks.db"), demo: true}

	for i := 0; i < 2; i++ {
		store, err := openStore(ctx, so, discardLogger())
		require.NoError(t, err)

		tasks, err := store.List(ctx, "demo", true)
		require.NoError(t, err)
		assert.Len(t, tasks, 10, "run %d", i)
		require.NoError(t, store.Close())
	}
}

func TestOpenStore_SeedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`project: ops
tasks:
  - title: Rotate keys
    priority: high
`), 0644))

	store, err := openStore(ctx, &serveOptions{db: ":memory:", seed: seedPath}, discardLogger())
	require.NoError(t, err)
	defer store.Close()

	tasks, err := store.List(ctx, "ops", false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Rotate keys", tasks[0].Title)

	_, err = openStore(ctx, &serveOptions{db: ":memory:", seed: filepath.Join(dir, "missing.yaml")}, discardLogger())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasktable.log")

	logger, closeLog, err := newLogger(config.LogConfig{File: path, Level: "info"}, io.Discard)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("visible", "key", "value")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.Contains(t, string(data), "key=value")
	assert.NotContains(t, string(data), "hidden")

	var buf bytes.Buffer
	logger, _, err = newLogger(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")

	_, _, err = newLogger(config.LogConfig{Level: "verbose"}, io.Discard)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandHome("~/logs/a.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "a.log"), got)

	got, err = expandHome("/var/log/a.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/a.log", got)
}
