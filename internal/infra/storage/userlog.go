package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"officegw/internal/domain"
)

// UserLogStore persists per-user log lines in a local bbolt database, one
// bucket per user, keyed by timestamp for ordered scans.
type UserLogStore struct {
	db *bbolt.DB
}

type userLogRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Level     domain.LogLevel `json:"level"`
	Message   string          `json:"message"`
	Category  string          `json:"category,omitempty"`
	Context   map[string]any  `json:"context,omitempty"`
	TraceID   string          `json:"traceId,omitempty"`
	DeviceID  string          `json:"deviceId,omitempty"`
}

func OpenUserLogStore(path string) (*UserLogStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open user log store: %w", err)
	}
	return &UserLogStore{db: db}, nil
}

func (s *UserLogStore) AddUserLog(ctx context.Context, userID string, level domain.LogLevel, message, category string, logContext map[string]any, traceID, deviceID string) error {
	if userID == "" {
		return nil
	}
	record := userLogRecord{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Category:  category,
		Context:   logContext,
		TraceID:   traceID,
		DeviceID:  deviceID,
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode user log: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.db.Update(func(tx *bbolt.Tx) error {
			bucket, err := tx.CreateBucketIfNotExists([]byte(userID))
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%d-%d", record.Timestamp.UnixNano(), bucket.Sequence())
			if err := bucket.SetSequence(bucket.Sequence() + 1); err != nil {
				return err
			}
			if err := bucket.Put([]byte(key), encoded); err != nil {
				return err
			}
			return trimOldest(bucket, domain.UserLogRetention)
		})
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// trimOldest drops the oldest entries until at most keep remain.
func trimOldest(bucket *bbolt.Bucket, keep int) error {
	excess := bucket.Stats().KeyN + 1 - keep
	cursor := bucket.Cursor()
	for key, _ := cursor.First(); key != nil && excess > 0; key, _ = cursor.Next() {
		if err := cursor.Delete(); err != nil {
			return err
		}
		excess--
	}
	return nil
}

// Recent returns up to limit entries for a user, newest first.
func (s *UserLogStore) Recent(userID string, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultLogBufferSize
	}
	var out []domain.LogEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(userID))
		if bucket == nil {
			return nil
		}
		cursor := bucket.Cursor()
		for key, value := cursor.Last(); key != nil && len(out) < limit; key, value = cursor.Prev() {
			var record userLogRecord
			if err := json.Unmarshal(value, &record); err != nil {
				continue
			}
			out = append(out, domain.LogEntry{
				Timestamp: record.Timestamp,
				Level:     record.Level,
				Category:  record.Category,
				Message:   record.Message,
				Context:   record.Context,
				TraceID:   record.TraceID,
				UserID:    userID,
				DeviceID:  record.DeviceID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserLogStore) Close() error {
	return s.db.Close()
}

var _ domain.UserLogStore = (*UserLogStore)(nil)
