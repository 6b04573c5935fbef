package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := OpenBackend(path, false)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestDeletePrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for _, key := range []string{"a:1", "a:2", "a:3", "b:1"} {
			if err := wb.Set([]byte(key), []byte("v")); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	n, err := backend.DeletePrefix([]byte("a:"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = backend.DeletePrefix([]byte("a:"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("b:1"))
		return err
	}, false)
	assert.NoError(t, err)
}

func TestMakeDocumentKey_Ordering(t *testing.T) {
	k1 := makeDocumentKey(1, 2)
	k2 := makeDocumentKey(1, 10)
	k3 := makeDocumentKey(2, 0)

	assert.Less(t, string(k1), string(k2))
	assert.Less(t, string(k2), string(k3))
	assert.True(t, len(k1) == len(makeGenerationPrefix(1))+8)
}
