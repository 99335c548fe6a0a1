package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"officegw/internal/domain"
)

func openTestStore(t *testing.T) *UserLogStore {
	t.Helper()
	store, err := OpenUserLogStore(filepath.Join(t.TempDir(), "userlogs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUserLogStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddUserLog(ctx, "user-1", domain.LogLevelInfo, "sent a message", "mail",
		map[string]any{"tool": "sendEmail"}, "trace-1", "device-1"))

	entries, err := store.Recent("user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "sent a message", entries[0].Message)
	require.Equal(t, domain.LogLevelInfo, entries[0].Level)
	require.Equal(t, "mail", entries[0].Category)
	require.Equal(t, "trace-1", entries[0].TraceID)
	require.Equal(t, "user-1", entries[0].UserID)
	require.Equal(t, "sendEmail", entries[0].Context["tool"])
}

func TestUserLogStore_RecentIsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, message := range []string{"first", "second", "third"} {
		require.NoError(t, store.AddUserLog(ctx, "user-1", domain.LogLevelInfo, message, "mail", nil, "", ""))
	}

	entries, err := store.Recent("user-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "third", entries[0].Message)
	require.Equal(t, "second", entries[1].Message)
}

func TestUserLogStore_UsersAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddUserLog(ctx, "alice", domain.LogLevelInfo, "hers", "mail", nil, "", ""))
	require.NoError(t, store.AddUserLog(ctx, "bob", domain.LogLevelInfo, "his", "mail", nil, "", ""))

	entries, err := store.Recent("alice", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "hers", entries[0].Message)
}

func TestUserLogStore_RetentionTrimsOldest(t *testing.T) {
	store := openTestStore(t)
	store.db.NoSync = true
	ctx := context.Background()

	total := domain.UserLogRetention + 25
	for i := 0; i < total; i++ {
		require.NoError(t, store.AddUserLog(ctx, "user-1", domain.LogLevelInfo,
			fmt.Sprintf("entry %d", i), "mail", nil, "", ""))
	}

	entries, err := store.Recent("user-1", total)
	require.NoError(t, err)
	require.Len(t, entries, domain.UserLogRetention)
	require.Equal(t, fmt.Sprintf("entry %d", total-1), entries[0].Message)
	require.Equal(t, fmt.Sprintf("entry %d", total-domain.UserLogRetention), entries[len(entries)-1].Message)
}

func TestUserLogStore_TrimOldestKeepsNewest(t *testing.T) {
	store := openTestStore(t)
	err := store.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte("user-1"))
		require.NoError(t, err)
		for _, key := range []string{"1", "2", "3", "4", "5"} {
			require.NoError(t, bucket.Put([]byte(key), []byte("{}")))
		}
		return nil
	})
	require.NoError(t, err)

	// trimOldest counts committed keys plus the one pending write it is
	// called after, so keep=3 over 5 committed keys leaves 2.
	err = store.db.Update(func(tx *bbolt.Tx) error {
		return trimOldest(tx.Bucket([]byte("user-1")), 3)
	})
	require.NoError(t, err)

	err = store.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte("user-1"))
		var keys []string
		cursor := bucket.Cursor()
		for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
			keys = append(keys, string(key))
		}
		require.Equal(t, []string{"4", "5"}, keys)
		return nil
	})
	require.NoError(t, err)
}

func TestUserLogStore_EmptyUserIsNoop(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.AddUserLog(context.Background(), "", domain.LogLevelInfo, "ignored", "", nil, "", ""))
}

func TestUserLogStore_UnknownUserEmptyResult(t *testing.T) {
	store := openTestStore(t)
	entries, err := store.Recent("nobody", 5)
	require.NoError(t, err)
	require.Empty(t, entries)
}
