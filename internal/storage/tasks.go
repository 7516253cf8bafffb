// Package storage persists tasks for the local backend in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// TaskStore handles SQLite task storage
type TaskStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewTaskStore opens (creating if needed) the database at dbPath.
// ":memory:" gives a private in-memory database.
func NewTaskStore(dbPath string) (*TaskStore, error) {
	if dbPath != ":memory:" {
		// Expand ~ in path
		if strings.HasPrefix(dbPath, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &domain.StoreError{Op: "open", Err: err}
	}
	// a single connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)

	store := &TaskStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, &domain.StoreError{Op: "migrate", Err: err}
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *TaskStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			parent_task_id TEXT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			phase_number INTEGER,
			assignee_id TEXT,
			start_date TEXT,
			due_date TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *TaskStore) Close() error {
	return s.db.Close()
}

const selectTask = `
	SELECT t.id, t.project_id, t.parent_task_id, t.title, t.description, t.status, t.priority,
		t.phase_number, t.assignee_id, t.start_date, t.due_date, t.version, t.created_at, t.updated_at,
		u.name, u.email, u.avatar_url
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assignee_id
`

// SaveUser inserts or replaces a user that tasks can be assigned to
func (s *TaskStore) SaveUser(ctx context.Context, user domain.Assignee) error {
	if user.ID == "" {
		return &domain.StoreError{Op: "save user", Err: fmt.Errorf("%w: empty user id", domain.ErrInvalidValue)}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (id, name, email, avatar_url) VALUES (?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, user.AvatarURL)
	if err != nil {
		return &domain.StoreError{Op: "save user", TaskID: user.ID, Err: err}
	}
	return nil
}

// Users lists every known user
func (s *TaskStore) Users(ctx context.Context) ([]domain.Assignee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, avatar_url FROM users ORDER BY name, id`)
	if err != nil {
		return nil, &domain.StoreError{Op: "users", Err: err}
	}
	defer rows.Close()

	users := []domain.Assignee{}
	for rows.Next() {
		var u domain.Assignee
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL); err != nil {
			return nil, &domain.StoreError{Op: "users", Err: err}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Insert stores a new task. An empty ID is replaced with a fresh UUID; the
// version starts at 1.
func (s *TaskStore) Insert(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.ProjectID == "" || strings.TrimSpace(task.Title) == "" {
		return domain.Task{}, &domain.StoreError{Op: "insert", TaskID: task.ID,
			Err: fmt.Errorf("%w: project and title are required", domain.ErrInvalidValue)}
	}
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if !task.Status.Valid() || !task.Priority.Valid() {
		return domain.Task{}, &domain.StoreError{Op: "insert", TaskID: task.ID,
			Err: fmt.Errorf("%w: status %q priority %q", domain.ErrInvalidValue, task.Status, task.Priority)}
	}

	now := s.now()
	task.Version = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, parent_task_id, title, description, status, priority,
			phase_number, assignee_id, start_date, due_date, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.ProjectID, nullString(task.ParentTaskID), task.Title, task.Description,
		string(task.Status), string(task.Priority), nullInt(task.PhaseNumber), nullString(task.AssigneeID),
		nullDate(task.StartDate), nullDate(task.DueDate), task.Version, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return domain.Task{}, &domain.StoreError{Op: "insert", TaskID: task.ID, Err: err}
	}

	return s.Get(ctx, task.ID)
}

// Get retrieves a task by ID
func (s *TaskStore) Get(ctx context.Context, id string) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, selectTask+` WHERE t.id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, &domain.StoreError{Op: "get", TaskID: id, Err: domain.ErrNotFound}
		}
		return domain.Task{}, &domain.StoreError{Op: "get", TaskID: id, Err: err}
	}
	return task, nil
}

// List returns the tasks of a project in creation order. Subtasks are only
// included when withSubtasks is set.
func (s *TaskStore) List(ctx context.Context, projectID string, withSubtasks bool) ([]domain.Task, error) {
	query := selectTask + ` WHERE t.project_id = ?`
	if !withSubtasks {
		query += ` AND t.parent_task_id IS NULL`
	}
	query += ` ORDER BY t.created_at, t.rowid`

	return s.query(ctx, "list", query, projectID)
}

// Children returns the direct subtasks of parentID in creation order
func (s *TaskStore) Children(ctx context.Context, parentID string) ([]domain.Task, error) {
	if _, err := s.Get(ctx, parentID); err != nil {
		return nil, err
	}
	return s.query(ctx, "children", selectTask+` WHERE t.parent_task_id = ? ORDER BY t.created_at, t.rowid`, parentID)
}

// Update applies a partial update. A non-zero ifVersion must match the stored
// version or the update fails with ErrConflict. The version is bumped on success.
func (s *TaskStore) Update(ctx context.Context, id string, update domain.TaskUpdate, ifVersion int64) (domain.Task, error) {
	if update.IsEmpty() {
		return s.Get(ctx, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id, Err: err}
	}
	defer tx.Rollback()

	current, err := scanTask(tx.QueryRowContext(ctx, selectTask+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id, Err: domain.ErrNotFound}
		}
		return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id, Err: err}
	}

	if ifVersion != 0 && ifVersion != current.Version {
		return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id,
			Err: fmt.Errorf("%w: version %d, have %d", domain.ErrConflict, ifVersion, current.Version)}
	}

	if update.AssigneeID != nil && *update.AssigneeID != "" {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, *update.AssigneeID).Scan(&exists)
		if err != nil {
			return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id, Err: err}
		}
		if exists == 0 {
			return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id,
				Err: fmt.Errorf("%w: unknown assignee %q", domain.ErrInvalidValue, *update.AssigneeID)}
		}
	}

	next := update.ApplyTo(current)
	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET status = ?, priority = ?, assignee_id = ?, start_date = ?, due_date = ?,
			version = version + 1, updated_at = ?
		WHERE id = ?
	`, string(next.Status), string(next.Priority), nullString(next.AssigneeID),
		nullDate(next.StartDate), nullDate(next.DueDate), s.now(), id)
	if err != nil {
		return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, &domain.StoreError{Op: "update", TaskID: id, Err: err}
	}

	return s.Get(ctx, id)
}

// Delete removes a task together with its subtasks
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "delete", TaskID: id, Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return &domain.StoreError{Op: "delete", TaskID: id, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.StoreError{Op: "delete", TaskID: id, Err: domain.ErrNotFound}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE parent_task_id = ?`, id); err != nil {
		return &domain.StoreError{Op: "delete", TaskID: id, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "delete", TaskID: id, Err: err}
	}
	return nil
}

func (s *TaskStore) query(ctx context.Context, op, query string, args ...any) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: op, Err: err}
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (domain.Task, error) {
	var (
		task                            domain.Task
		status, priority                string
		parentID, assigneeID            sql.NullString
		startDate, dueDate              sql.NullString
		phase                           sql.NullInt64
		userName, userEmail, userAvatar sql.NullString
	)

	err := row.Scan(&task.ID, &task.ProjectID, &parentID, &task.Title, &task.Description, &status, &priority,
		&phase, &assigneeID, &startDate, &dueDate, &task.Version, &task.CreatedAt, &task.UpdatedAt,
		&userName, &userEmail, &userAvatar)
	if err != nil {
		return domain.Task{}, err
	}

	task.Status = domain.Status(status)
	task.Priority = domain.Priority(priority)
	if parentID.Valid {
		task.ParentTaskID = &parentID.String
	}
	if phase.Valid {
		n := int(phase.Int64)
		task.PhaseNumber = &n
	}
	if assigneeID.Valid {
		task.AssigneeID = &assigneeID.String
		task.Assignee = &domain.Assignee{
			ID:        assigneeID.String,
			Name:      userName.String,
			Email:     userEmail.String,
			AvatarURL: userAvatar.String,
		}
	}
	if task.StartDate, err = scanDate(startDate); err != nil {
		return domain.Task{}, err
	}
	if task.DueDate, err = scanDate(dueDate); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func scanDate(v sql.NullString) (*domain.Date, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullString(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullDate(d *domain.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}
