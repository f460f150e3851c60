package mysql

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/store"
)

var _ store.Store = (*Store)(nil)

// openTestStore connects to the server named by TASKLIST_TEST_MYSQL_DSN,
// skipping the test when it is unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TASKLIST_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TASKLIST_TEST_MYSQL_DSN not set, skipping MySQL tests")
	}
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.db.Exec("DELETE FROM kv WHERE k LIKE 'test-%'")
		s.Close()
	})
	return s
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mysql dsn")
}

func TestOpen_UnreachableServer(t *testing.T) {
	_, err := Open(context.Background(), "user:pw@tcp(127.0.0.1:1)/tasks?timeout=1s")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestSetGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, found, err := s.Get(ctx, "test-missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "test-key", []byte("one")))
	require.NoError(t, s.Set(ctx, "test-key", []byte("two")))

	v, found, err := s.Get(ctx, "test-key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "two", string(v))
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}
