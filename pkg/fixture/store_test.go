package fixture

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotBeforeLoad(t *testing.T) {
	store := NewStore(t.TempDir(), testToken)

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Messages)
	assert.Equal(t, testToken, snap.LocalStorage["auth"])
}

func TestStoreLoadPublishes(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)
	store := NewStore(dir, testToken)

	require.NoError(t, store.Load())

	snap := store.Snapshot()
	assert.Len(t, snap.Messages, 3)
	assert.Equal(t, "captured_token", snap.LocalStorage["auth"])
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)
	store := NewStore(dir, testToken)
	require.NoError(t, store.Load())

	before := store.Snapshot()

	// Change the fixture on disk and reload.
	content := `[{"id": 999, "folder": 3, "subject": "New"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileAllMessages), []byte(content), 0o644))
	require.NoError(t, store.Reload())

	after := store.Snapshot()
	assert.NotSame(t, before, after)

	// The old snapshot is untouched; the new one sees the change.
	assert.Equal(t, "Test", before.Messages[2]["subject"])
	assert.Equal(t, "New", after.Messages[2]["subject"])
}

func TestStoreReloadFailureRetainsOldSnapshot(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "fixtures")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFixtureDir(t, dir)

	store := NewStore(dir, testToken)
	require.NoError(t, store.Load())
	before := store.Snapshot()

	// Make the directory unreadable by replacing it with a file.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	err := store.Reload()
	require.Error(t, err)

	after := store.Snapshot()
	assert.Same(t, before, after, "failed reload must keep the old snapshot")
	assert.Len(t, after.Messages, 3)
}

func TestStoreConcurrentReadersDuringReload(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)
	store := NewStore(dir, testToken)
	require.NoError(t, store.Load())

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Readers verify every observed snapshot is internally consistent:
	// the pool either has the original 3 messages or the reloaded 1.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := store.Snapshot()
				n := len(snap.Messages)
				if n != 3 && n != 1 {
					t.Errorf("observed torn snapshot with %d messages", n)
					return
				}
			}
		}()
	}

	// Shrink the fixture set and reload repeatedly.
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileMessages), []byte(`{"data": []}`), 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, FileFullMessage)))
	require.NoError(t, os.Remove(filepath.Join(dir, FileFolders)))
	for i := 0; i < 50; i++ {
		require.NoError(t, store.Reload())
	}

	close(stop)
	wg.Wait()
}
