// Package sqlitestore provides SQLite-backed store implementations.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite"

	"closetguard/internal/moderation"
)

const schema = `
CREATE TABLE IF NOT EXISTS moderation_audit (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id      TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	status       TEXT NOT NULL,
	confidence   REAL NOT NULL,
	reason       TEXT NOT NULL,
	analysis     TEXT NOT NULL,
	submitted_at TEXT NOT NULL,
	reviewed_at  TEXT NOT NULL,
	appealable   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_moderation_audit_user ON moderation_audit (user_id, id DESC);
`

// Open opens (or creates) the SQLite database at path and applies the audit
// schema. The connection is instrumented with otelsql so store queries show
// up in traces alongside engine spans.
func Open(path string) (*sql.DB, error) {
	db, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply audit schema: %w", err)
	}

	return db, nil
}

// AuditStore implements moderation.AuditStore using SQLite.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates an AuditStore backed by the given database.
// The database must already have the audit schema applied.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Ensure AuditStore implements the interface at compile time.
var _ moderation.AuditStore = (*AuditStore)(nil)

func (s *AuditStore) Append(ctx context.Context, decision moderation.Decision) error {
	analysis, err := json.Marshal(decision.Analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	appealable := 0
	if decision.Appealable {
		appealable = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO moderation_audit
			(item_id, user_id, status, confidence, reason, analysis, submitted_at, reviewed_at, appealable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, decision.ItemID, decision.UserID, string(decision.Status), decision.Confidence, decision.Reason,
		string(analysis), decision.SubmittedAt.Format(time.RFC3339Nano),
		decision.ReviewedAt.Format(time.RFC3339Nano), appealable)
	if err != nil {
		return fmt.Errorf("append decision: %w", err)
	}
	return nil
}

func (s *AuditStore) QueryRecent(ctx context.Context, userID string, limit int) ([]moderation.Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, user_id, status, confidence, reason, analysis, submitted_at, reviewed_at, appealable
		FROM moderation_audit WHERE user_id = ? ORDER BY id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]moderation.Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, user_id, status, confidence, reason, analysis, submitted_at, reviewed_at, appealable
		FROM moderation_audit ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func scanDecisions(rows *sql.Rows) ([]moderation.Decision, error) {
	var decisions []moderation.Decision
	for rows.Next() {
		var d moderation.Decision
		var analysisStr, submittedAtStr, reviewedAtStr string
		var appealable int
		if err := rows.Scan(&d.ItemID, &d.UserID, &d.Status, &d.Confidence, &d.Reason,
			&analysisStr, &submittedAtStr, &reviewedAtStr, &appealable); err != nil {
			continue
		}
		_ = json.Unmarshal([]byte(analysisStr), &d.Analysis)
		d.SubmittedAt, _ = time.Parse(time.RFC3339Nano, submittedAtStr)
		d.ReviewedAt, _ = time.Parse(time.RFC3339Nano, reviewedAtStr)
		d.Appealable = appealable == 1
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
