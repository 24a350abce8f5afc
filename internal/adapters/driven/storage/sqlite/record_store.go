package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Upsert inserts or updates a record keyed by (owner, source, external ID).
// A bodiless update keeps any previously fetched body.
func (r *recordStore) Upsert(ctx context.Context, owner string, record domain.Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO records (id, owner, external_id, source, account_ref, topic_id,
			title, snippet, body, url, occurred_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, source, external_id) DO UPDATE SET
			account_ref = excluded.account_ref,
			topic_id = excluded.topic_id,
			title = excluded.title,
			snippet = excluded.snippet,
			body = CASE WHEN excluded.body = '' THEN records.body ELSE excluded.body END,
			url = excluded.url,
			occurred_at = excluded.occurred_at,
			metadata = excluded.metadata
	`, record.ID, owner, record.ExternalID, string(record.Source), record.AccountRef,
		nullString(record.TopicID), record.Title, record.Snippet, record.Body,
		record.URL, nullOccurred(record.OccurredAt), string(metadataJSON))
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

const recordColumns = `id, external_id, source, account_ref, topic_id, title,
	snippet, body, url, occurred_at, metadata`

// ListForTopic returns the topic's records most recent first.
func (r *recordStore) ListForTopic(ctx context.Context, owner, topicID string) ([]domain.Record, error) {
	rows, err := r.store.db.QueryContext(ctx,
		"SELECT "+recordColumns+` FROM records
		WHERE owner = ? AND topic_id = ? ORDER BY occurred_at DESC`, owner, topicID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListRecent returns the owner's records most recent first, capped at limit.
func (r *recordStore) ListRecent(ctx context.Context, owner string, limit int) ([]domain.Record, error) {
	rows, err := r.store.db.QueryContext(ctx,
		"SELECT "+recordColumns+` FROM records
		WHERE owner = ? ORDER BY occurred_at DESC LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// LinkedKeys returns the keys of records linked to the topic.
func (r *recordStore) LinkedKeys(ctx context.Context, owner, topicID string) (map[string]bool, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT source, external_id FROM records WHERE owner = ? AND topic_id = ?
	`, owner, topicID)
	if err != nil {
		return nil, fmt.Errorf("listing linked keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var source, externalID string
		if err := rows.Scan(&source, &externalID); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys[source+":"+externalID] = true
	}
	return keys, rows.Err()
}

// SetBody stores fetched content on a record, merging metadata.
func (r *recordStore) SetBody(ctx context.Context, owner, recordID, body string, metadata map[string]any) error {
	row := r.store.db.QueryRowContext(ctx,
		"SELECT metadata FROM records WHERE id = ? AND owner = ?", recordID, owner)
	var existingJSON string
	if err := row.Scan(&existingJSON); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return fmt.Errorf("reading record metadata: %w", err)
	}

	var merged map[string]any
	if err := json.Unmarshal([]byte(existingJSON), &merged); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}
	if merged == nil {
		merged = make(map[string]any)
	}
	for k, v := range metadata {
		merged[k] = v
	}
	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		UPDATE records SET body = ?, metadata = ? WHERE id = ? AND owner = ?
	`, body, string(mergedJSON), recordID, owner)
	if err != nil {
		return fmt.Errorf("updating record body: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	var records []domain.Record
	for rows.Next() {
		var record domain.Record
		var source string
		var topicID sql.NullString
		var occurredAt sql.NullTime
		var metadataJSON string
		if err := rows.Scan(&record.ID, &record.ExternalID, &source, &record.AccountRef,
			&topicID, &record.Title, &record.Snippet, &record.Body, &record.URL,
			&occurredAt, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		record.Source = domain.SourceType(source)
		record.TopicID = topicID.String
		if occurredAt.Valid {
			record.OccurredAt = occurredAt.Time
		}
		if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func nullOccurred(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
