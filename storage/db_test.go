package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Database {
	t.Helper()
	dir := t.TempDir()
	level, err := NewLevelDB(filepath.Join(dir, "level"))
	require.NoError(t, err)
	bolt, err := NewBoltDB(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		level.Close()
		bolt.Close()
	})
	return map[string]Database{
		BackendMemory:  NewMemDB(),
		BackendLevelDB: level,
		BackendBolt:    bolt,
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.Get([]byte("missing"))
			require.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, db.Put([]byte("k"), []byte("v")))
			got, err := db.Get([]byte("k"))
			require.NoError(t, err)
			require.Equal(t, []byte("v"), got)

			ok, err := db.Has([]byte("k"))
			require.NoError(t, err)
			require.True(t, ok)

			require.NoError(t, db.Delete([]byte("k")))
			ok, err = db.Has([]byte("k"))
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestBatchWrite(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Put([]byte("gone"), []byte("x")))
			batch := db.NewBatch()
			batch.Put([]byte("a"), []byte("1"))
			batch.Put([]byte("b"), []byte("2"))
			batch.Delete([]byte("gone"))
			require.Equal(t, 3, batch.Len())
			require.NoError(t, batch.Write())

			got, err := db.Get([]byte("b"))
			require.NoError(t, err)
			require.Equal(t, []byte("2"), got)
			_, err = db.Get([]byte("gone"))
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open("rocks", t.TempDir())
	require.Error(t, err)

	db, err := Open(BackendMemory, "")
	require.NoError(t, err)
	defer db.Close()
	require.IsType(t, &MemDB{}, db)
}
