// Package memstore provides an in-memory moderation.AuditStore. It backs
// the "memory" database driver for ephemeral deployments and serves as the
// store double in tests.
package memstore

import (
	"context"
	"sync"

	"closetguard/internal/moderation"
)

// AuditStore keeps the decision history in memory, newest last.
type AuditStore struct {
	mu        sync.RWMutex
	decisions []moderation.Decision

	// AppendErr, when set, is returned by Append. Test hook for the
	// audit-write failure path.
	AppendErr error

	// QueryErr, when set, is returned by QueryRecent and ListRecent.
	// Test hook for the degraded history path.
	QueryErr error
}

// New creates an empty in-memory audit store.
func New() *AuditStore {
	return &AuditStore{}
}

// Ensure AuditStore implements the interface at compile time.
var _ moderation.AuditStore = (*AuditStore)(nil)

func (s *AuditStore) Append(ctx context.Context, decision moderation.Decision) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	decision.Warnings = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, decision)
	return nil
}

func (s *AuditStore) QueryRecent(ctx context.Context, userID string, limit int) ([]moderation.Decision, error) {
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []moderation.Decision
	for i := len(s.decisions) - 1; i >= 0 && len(result) < limit; i-- {
		if s.decisions[i].UserID == userID {
			result = append(result, s.decisions[i])
		}
	}
	return result, nil
}

func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]moderation.Decision, error) {
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []moderation.Decision
	for i := len(s.decisions) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.decisions[i])
	}
	return result, nil
}

// Len returns the number of stored decisions.
func (s *AuditStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decisions)
}
