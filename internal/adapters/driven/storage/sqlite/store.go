package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/topicos/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// topic, record, and contact store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.topicos/data/topicos.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".topicos", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "topicos.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TopicStore returns a TopicStore interface backed by this store.
func (s *Store) TopicStore() driven.TopicStore {
	return &topicStore{store: s}
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// ContactStore returns a ContactStore interface backed by this store.
func (s *Store) ContactStore() driven.ContactStore {
	return &contactStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Topic Store ====================

// topicStore implements driven.TopicStore.
type topicStore struct {
	store *Store
}

var _ driven.TopicStore = (*topicStore)(nil)

// Save stores or updates a topic, assigning an ID when absent.
func (t *topicStore) Save(ctx context.Context, topic domain.Topic) (string, error) {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	topic.UpdatedAt = now

	tagsJSON, err := json.Marshal(topic.Tags)
	if err != nil {
		return "", fmt.Errorf("marshalling tags: %w", err)
	}
	stepsJSON, err := json.Marshal(topic.NextSteps)
	if err != nil {
		return "", fmt.Errorf("marshalling next steps: %w", err)
	}

	_, err = t.store.db.ExecContext(ctx, `
		INSERT INTO topics (id, owner, parent_id, area, title, description, goal, tags,
			due_date, summary, next_steps, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			parent_id = excluded.parent_id,
			area = excluded.area,
			title = excluded.title,
			description = excluded.description,
			goal = excluded.goal,
			tags = excluded.tags,
			due_date = excluded.due_date,
			summary = excluded.summary,
			next_steps = excluded.next_steps,
			archived = excluded.archived,
			updated_at = excluded.updated_at
	`, topic.ID, topic.Owner, nullString(topic.ParentID), topic.Area, topic.Title,
		topic.Description, topic.Goal, string(tagsJSON), nullTime(topic.DueDate),
		topic.Summary, string(stepsJSON), topic.Archived, topic.CreatedAt, topic.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("saving topic: %w", err)
	}
	return topic.ID, nil
}

const topicColumns = `id, owner, parent_id, area, title, description, goal, tags,
	due_date, summary, next_steps, archived, created_at, updated_at`

// Get retrieves a topic by ID, scoped to the owner.
func (t *topicStore) Get(ctx context.Context, owner, topicID string) (*domain.Topic, error) {
	row := t.store.db.QueryRowContext(ctx,
		"SELECT "+topicColumns+" FROM topics WHERE id = ? AND owner = ?", topicID, owner)
	return scanTopic(row)
}

// ListActive returns the owner's non-archived topics.
func (t *topicStore) ListActive(ctx context.Context, owner, area string) ([]domain.Topic, error) {
	query := "SELECT " + topicColumns + " FROM topics WHERE owner = ? AND archived = 0"
	args := []any{owner}
	if area != "" {
		query += " AND area = ?"
		args = append(args, area)
	}
	query += " ORDER BY created_at"

	rows, err := t.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *topic)
	}
	return topics, rows.Err()
}

// Ancestors walks the parent chain, at most two levels up.
func (t *topicStore) Ancestors(ctx context.Context, owner, topicID string) ([]domain.AncestorTopic, error) {
	topic, err := t.Get(ctx, owner, topicID)
	if err != nil {
		return nil, err
	}

	var ancestors []domain.AncestorTopic
	parentID := topic.ParentID
	for range 2 {
		if parentID == "" {
			break
		}
		parent, err := t.Get(ctx, owner, parentID)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, domain.AncestorTopic{
			ID:          parent.ID,
			Title:       parent.Title,
			Description: parent.Description,
			Goal:        parent.Goal,
		})
		parentID = parent.ParentID
	}
	return ancestors, nil
}

// UpdateSummary stores the deep-dive result on the topic.
func (t *topicStore) UpdateSummary(ctx context.Context, owner, topicID, summary string, nextSteps []string) error {
	stepsJSON, err := json.Marshal(nextSteps)
	if err != nil {
		return fmt.Errorf("marshalling next steps: %w", err)
	}

	result, err := t.store.db.ExecContext(ctx, `
		UPDATE topics SET summary = ?, next_steps = ?, updated_at = ?
		WHERE id = ? AND owner = ?
	`, summary, string(stepsJSON), time.Now().UTC(), topicID, owner)
	if err != nil {
		return fmt.Errorf("updating summary: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddTask attaches a task to a topic.
func (t *topicStore) AddTask(ctx context.Context, task domain.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	_, err := t.store.db.ExecContext(ctx, `
		INSERT INTO tasks (id, topic_id, title, status, priority, assignee, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.TopicID, task.Title, string(task.Status), task.Priority,
		task.Assignee, nullTime(task.DueDate))
	if err != nil {
		return "", fmt.Errorf("saving task: %w", err)
	}
	return task.ID, nil
}

// ListTasks returns the topic's tasks.
func (t *topicStore) ListTasks(ctx context.Context, owner, topicID string) ([]domain.Task, error) {
	if _, err := t.Get(ctx, owner, topicID); err != nil {
		return nil, err
	}

	rows, err := t.store.db.QueryContext(ctx, `
		SELECT id, topic_id, title, status, priority, assignee, due_date
		FROM tasks WHERE topic_id = ?
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		var status string
		var dueDate sql.NullTime
		if err := rows.Scan(&task.ID, &task.TopicID, &task.Title, &status,
			&task.Priority, &task.Assignee, &dueDate); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		task.Status = domain.TaskStatus(status)
		if dueDate.Valid {
			due := dueDate.Time
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// AddNote attaches a note to a topic.
func (t *topicStore) AddNote(ctx context.Context, note domain.Note) (string, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	_, err := t.store.db.ExecContext(ctx, `
		INSERT INTO notes (id, topic_id, text, created_at) VALUES (?, ?, ?, ?)
	`, note.ID, note.TopicID, note.Text, note.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("saving note: %w", err)
	}
	return note.ID, nil
}

// ListNotes returns the topic's notes oldest first.
func (t *topicStore) ListNotes(ctx context.Context, owner, topicID string) ([]domain.Note, error) {
	if _, err := t.Get(ctx, owner, topicID); err != nil {
		return nil, err
	}

	rows, err := t.store.db.QueryContext(ctx, `
		SELECT id, topic_id, text, created_at FROM notes
		WHERE topic_id = ? ORDER BY created_at
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.TopicID, &note.Text, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(row scanner) (*domain.Topic, error) {
	var topic domain.Topic
	var parentID sql.NullString
	var tagsJSON, stepsJSON string
	var dueDate sql.NullTime
	if err := row.Scan(&topic.ID, &topic.Owner, &parentID, &topic.Area, &topic.Title,
		&topic.Description, &topic.Goal, &tagsJSON, &dueDate, &topic.Summary,
		&stepsJSON, &topic.Archived, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}

	topic.ParentID = parentID.String
	if dueDate.Valid {
		due := dueDate.Time
		topic.DueDate = &due
	}
	if err := json.Unmarshal([]byte(tagsJSON), &topic.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &topic.NextSteps); err != nil {
		return nil, fmt.Errorf("unmarshalling next steps: %w", err)
	}
	return &topic, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
