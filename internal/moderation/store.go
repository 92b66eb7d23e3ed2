package moderation

import "context"

// AuditStore is the append-only moderation decision history.
// Implementations must be safe for concurrent use.
type AuditStore interface {
	// Append persists a decision. Records are immutable once written;
	// rejected records are what strike counting is derived from.
	Append(ctx context.Context, decision Decision) error

	// QueryRecent returns up to limit decisions for a user, newest first.
	QueryRecent(ctx context.Context, userID string, limit int) ([]Decision, error)

	// ListRecent returns up to limit decisions across all users, newest
	// first. Used by the admin audit view.
	ListRecent(ctx context.Context, limit int) ([]Decision, error)
}
