package archive_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories runs the shared contract against every implementation.
func storeFactories(t *testing.T) map[string]func() archive.Store {
	return map[string]func() archive.Store{
		"memory": func() archive.Store {
			return archive.NewMemoryStore()
		},
		"sqlite": func() archive.Store {
			s, err := archive.NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			require.NoError(t, store.Save("run-1", []byte(`{"a":1}`)))

			data, err := store.Load("run-1")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), data)
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			require.NoError(t, store.Save("run-1", []byte("first")))
			require.NoError(t, store.Save("run-1", []byte("second")))

			data, err := store.Load("run-1")
			require.NoError(t, err)
			assert.Equal(t, []byte("second"), data)

			infos, err := store.List()
			require.NoError(t, err)
			assert.Len(t, infos, 1)
		})
	}
}

func TestStore_LoadNotFound(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			_, err := store.Load("missing")
			assert.ErrorIs(t, err, archive.ErrNotFound)
		})
	}
}

func TestStore_ListOrder(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			infos, err := store.List()
			require.NoError(t, err)
			assert.Empty(t, infos)

			require.NoError(t, store.Save("run-b", []byte("b")))
			require.NoError(t, store.Save("run-a", []byte("aa")))
			require.NoError(t, store.Save("run-c", []byte("ccc")))

			infos, err = store.List()
			require.NoError(t, err)
			require.Len(t, infos, 3)
			assert.Equal(t, "run-b", infos[0].RunID)
			assert.Equal(t, "run-a", infos[1].RunID)
			assert.Equal(t, "run-c", infos[2].RunID)
			assert.Equal(t, int64(3), infos[2].Size)
			assert.False(t, infos[0].Timestamp.IsZero())
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			require.NoError(t, store.Save("run-1", []byte("x")))
			require.NoError(t, store.Delete("run-1"))
			require.NoError(t, store.Delete("run-1"))

			_, err := store.Load("run-1")
			assert.ErrorIs(t, err, archive.ErrNotFound)
		})
	}
}

func TestStore_Closed(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			require.NoError(t, store.Close())
			assert.NoError(t, store.Close())

			assert.ErrorIs(t, store.Save("run-1", []byte("x")), archive.ErrStoreClosed)
			_, err := store.Load("run-1")
			assert.ErrorIs(t, err, archive.ErrStoreClosed)
			_, err = store.List()
			assert.ErrorIs(t, err, archive.ErrStoreClosed)
			assert.ErrorIs(t, store.Delete("run-1"), archive.ErrStoreClosed)
		})
	}
}

func TestStore_Concurrent(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			const numGoroutines = 20
			const numOps = 20

			var wg sync.WaitGroup
			wg.Add(numGoroutines)
			for i := 0; i < numGoroutines; i++ {
				go func(id int) {
					defer wg.Done()
					runID := "run-" + string(rune('a'+id%26))
					for j := 0; j < numOps; j++ {
						switch j % 4 {
						case 0, 1:
							_ = store.Save(runID, []byte("data"))
						case 2:
							_, _ = store.Load(runID)
						case 3:
							_, _ = store.List()
						}
					}
				}(i)
			}
			wg.Wait()
		})
	}
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	store1, err := archive.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save("run-1", []byte("persistent")))
	require.NoError(t, store1.Close())

	store2, err := archive.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	data, err := store2.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("persistent"), data)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := archive.NewSQLiteStore("/nonexistent/path/archive.db")
	assert.Error(t, err)
}

func TestMemoryStore_Len(t *testing.T) {
	store := archive.NewMemoryStore()
	defer store.Close()

	assert.Equal(t, 0, store.Len())
	require.NoError(t, store.Save("run-1", []byte("a")))
	require.NoError(t, store.Save("run-2", []byte("b")))
	assert.Equal(t, 2, store.Len())
	require.NoError(t, store.Delete("run-1"))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := archive.NewMemoryStore()
	defer store.Close()

	data := []byte("original")
	require.NoError(t, store.Save("run-1", data))
	data[0] = 'X'

	loaded, err := store.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), loaded)

	loaded[0] = 'Y'
	again, err := store.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
