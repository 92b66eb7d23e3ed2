package boltstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"closetguard/internal/moderation"
)

// AuditStore provides persistent storage for the moderation decision history.
type AuditStore struct {
	db *bolt.DB
}

// Ensure AuditStore implements the interface at compile time.
var _ moderation.AuditStore = (*AuditStore)(nil)

// Append stores a decision in both the global log and the per-user index.
// Transient warnings are stripped before writing; they describe the request
// that produced the record, not the record itself.
func (s *AuditStore) Append(ctx context.Context, decision moderation.Decision) error {
	decision.Warnings = nil

	data, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		global := tx.Bucket(BucketAuditLog)
		if global == nil {
			return fmt.Errorf("bucket not found: %s", BucketAuditLog)
		}
		seq, err := global.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		if err := global.Put(itob(seq), data); err != nil {
			return err
		}

		users := tx.Bucket(BucketAuditByUser)
		if users == nil {
			return fmt.Errorf("bucket not found: %s", BucketAuditByUser)
		}
		userBucket, err := users.CreateBucketIfNotExists([]byte(decision.UserID))
		if err != nil {
			return fmt.Errorf("failed to create user bucket: %w", err)
		}
		userSeq, err := userBucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate user sequence: %w", err)
		}
		return userBucket.Put(itob(userSeq), data)
	})
}

// QueryRecent returns up to limit decisions for a user, newest first.
func (s *AuditStore) QueryRecent(ctx context.Context, userID string, limit int) ([]moderation.Decision, error) {
	var decisions []moderation.Decision

	err := s.db.View(func(tx *bolt.Tx) error {
		users := tx.Bucket(BucketAuditByUser)
		if users == nil {
			return nil
		}
		userBucket := users.Bucket([]byte(userID))
		if userBucket == nil {
			return nil
		}
		return scanNewestFirst(userBucket, limit, &decisions)
	})

	return decisions, err
}

// ListRecent returns up to limit decisions across all users, newest first.
func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]moderation.Decision, error) {
	var decisions []moderation.Decision

	err := s.db.View(func(tx *bolt.Tx) error {
		global := tx.Bucket(BucketAuditLog)
		if global == nil {
			return nil
		}
		return scanNewestFirst(global, limit, &decisions)
	})

	return decisions, err
}

// scanNewestFirst walks a sequence-keyed bucket backwards, decoding records
// until limit is reached.
func scanNewestFirst(bucket *bolt.Bucket, limit int, out *[]moderation.Decision) error {
	c := bucket.Cursor()
	for k, v := c.Last(); k != nil && len(*out) < limit; k, v = c.Prev() {
		var d moderation.Decision
		if err := json.Unmarshal(v, &d); err != nil {
			return fmt.Errorf("failed to unmarshal decision: %w", err)
		}
		*out = append(*out, d)
	}
	return nil
}

// itob encodes a sequence number as a sortable big-endian key.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
