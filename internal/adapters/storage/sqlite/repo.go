package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultListLimit caps activity queries that pass no limit.
const defaultListLimit = 50

var _ app.Journal = (*Repository)(nil)

// Repository is the session activity journal. It only ever lives in memory,
// so nothing it records survives the process.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a private in-memory journal.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the database; every recorded event is discarded.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the journal schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			list_id TEXT NOT NULL,
			list_name TEXT NOT NULL,
			operation TEXT NOT NULL,
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_list_created_at ON change_events(list_id, created_at DESC, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// AppendChangeEvent inserts a change-event ledger record.
func (r *Repository) AppendChangeEvent(ctx context.Context, event domain.ChangeEvent) error {
	if strings.TrimSpace(event.ListID) == "" {
		return domain.NewValidationError(domain.FieldListID, "change event needs a list id")
	}
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode change event metadata: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO change_events(list_id, list_name, operation, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		event.ListID,
		event.ListName,
		string(event.Operation),
		string(metadataJSON),
		ts(normalizeEventTS(event.OccurredAt)),
	)
	if err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

// ListChangeEvents lists recent events, newest first. An empty listID spans every list.
func (r *Repository) ListChangeEvents(ctx context.Context, listID string, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	listID = strings.TrimSpace(listID)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, list_id, list_name, operation, metadata_json, created_at
		FROM change_events
		WHERE (? = '' OR list_id = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, listID, listID, limit)
	if err != nil {
		return nil, fmt.Errorf("query change events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		event, err := scanChangeEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanChangeEvent decodes one change_events row.
func scanChangeEvent(s scanner) (domain.ChangeEvent, error) {
	var (
		event       domain.ChangeEvent
		opRaw       string
		metadataRaw string
		createdRaw  string
	)
	if err := s.Scan(&event.ID, &event.ListID, &event.ListName, &opRaw, &metadataRaw, &createdRaw); err != nil {
		return domain.ChangeEvent{}, err
	}
	event.Operation = domain.ChangeOperation(strings.TrimSpace(strings.ToLower(opRaw)))
	event.OccurredAt = parseTS(createdRaw)
	if strings.TrimSpace(metadataRaw) == "" {
		metadataRaw = "{}"
	}
	if err := json.Unmarshal([]byte(metadataRaw), &event.Metadata); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("decode change_events.metadata_json: %w", err)
	}
	if event.Metadata == nil {
		event.Metadata = map[string]string{}
	}
	return event, nil
}

// normalizeEventTS ensures event timestamps are always populated and UTC-normalized.
func normalizeEventTS(in time.Time) time.Time {
	if in.IsZero() {
		return time.Now().UTC()
	}
	return in.UTC()
}

// tsLayout is fixed width so created_at orders correctly as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
