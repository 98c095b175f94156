package fixture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test_token"

// writeFixtureDir populates dir with a full, valid fixture set.
func writeFixtureDir(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		FileFolders: `{
			"systemFolders": [{"id": 1, "name": "Inbox", "folderType": "INBOX"}],
			"userFolders": [{"id": 10, "name": "Custom"}]
		}`,
		FileMessages: `{
			"metadata": {"page": 1, "count": 2, "first": true, "last": true},
			"data": [
				{"id": 1, "folder": 1, "subject": "First", "date": "2024-01-02T00:00:00Z"},
				{"id": 2, "folder": 1, "subject": "Second", "date": "2024-01-01T00:00:00Z"}
			]
		}`,
		FileAllMessages:  `[{"id": 123, "folder": 2, "subject": "Test"}]`,
		FileFullMessage:  `{"id": 1, "folder": 1, "subject": "First", "body": "Full body"}`,
		FileLocalStorage: `{"auth": "captured_token", "userId": 123456, "firstName": "Mock"}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoadFullFixtureSet(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)

	snap, err := Load(dir, testToken)
	require.NoError(t, err)

	assert.Empty(t, snap.Warnings)
	assert.Len(t, snap.Folders.SystemFolders, 1)
	assert.Len(t, snap.Folders.UserFolders, 1)
	assert.Equal(t, "Inbox", snap.Folders.SystemFolders[0]["name"])

	// messages.json data first, then all_messages.json entries.
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "First", snap.Messages[0]["subject"])
	assert.Equal(t, "Test", snap.Messages[2]["subject"])

	require.Contains(t, snap.FullMessages, "1")
	assert.Equal(t, "Full body", snap.FullMessages["1"]["body"])

	assert.Equal(t, "captured_token", snap.LocalStorage["auth"])
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoadNumbersStayComparable(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)

	snap, err := Load(dir, testToken)
	require.NoError(t, err)

	// Ids decode as json.Number, not float64.
	id, ok := snap.Messages[0]["id"].(json.Number)
	require.True(t, ok, "id should be json.Number, got %T", snap.Messages[0]["id"])
	assert.Equal(t, "1", id.String())
}

func TestLoadEmptyDirectoryUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	snap, err := Load(dir, testToken)
	require.NoError(t, err)

	assert.Len(t, snap.Warnings, 5)
	assert.Equal(t, []Folder{}, snap.Folders.SystemFolders)
	assert.Equal(t, []Folder{}, snap.Folders.UserFolders)
	assert.Empty(t, snap.Messages)
	assert.Empty(t, snap.FullMessages)
	assert.Equal(t, testToken, snap.LocalStorage["auth"])
	assert.Nil(t, snap.LocalStorage["userId"])
}

func TestLoadMalformedFileUsesDefault(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileFolders), []byte("{not json"), 0o644))

	snap, err := Load(dir, testToken)
	require.NoError(t, err)

	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, FileFolders, snap.Warnings[0].File)
	assert.Contains(t, snap.Warnings[0].Message, "invalid JSON")
	assert.Empty(t, snap.Folders.SystemFolders)

	// Other entities are unaffected.
	assert.Len(t, snap.Messages, 3)
}

func TestLoadFullMessageWithoutID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileFullMessage), []byte(`{"subject": "no id"}`), 0o644))

	snap, err := Load(dir, testToken)
	require.NoError(t, err)

	assert.Empty(t, snap.FullMessages)

	var found bool
	for _, w := range snap.Warnings {
		if w.File == FileFullMessage && w.Message == "record has no id, ignoring" {
			found = true
		}
	}
	assert.True(t, found, "expected a warning for the id-less full message")
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"), testToken)
	assert.Error(t, err)
}

func TestLoadPathIsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Load(path, testToken)
	assert.Error(t, err)
}

func TestLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDir(t, dir)

	first, err := Load(dir, testToken)
	require.NoError(t, err)
	second, err := Load(dir, testToken)
	require.NoError(t, err)

	assert.Equal(t, first.Folders, second.Folders)
	assert.Equal(t, first.Messages, second.Messages)
	assert.Equal(t, first.FullMessages, second.FullMessages)
	assert.Equal(t, first.LocalStorage, second.LocalStorage)
}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{json.Number("123"), "123"},
		{float64(123), "123"},
		{float64(1.5), "1.5"},
		{42, "42"},
		{int64(42), "42"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalID(tt.in), "CanonicalID(%v)", tt.in)
	}
}
