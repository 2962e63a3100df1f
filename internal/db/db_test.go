package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/felo/header-processor/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSettings tests reading and writing a single setting
func TestSettings(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	value, err := db.GetSetting("missing")
	require.NoError(t, err)
	assert.Equal(t, "", value, "Missing setting should read as empty")

	require.NoError(t, db.SetSetting(SettingSubject, "first"))
	require.NoError(t, db.SetSetting(SettingSubject, "second"))

	value, err = db.GetSetting(SettingSubject)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

// TestReplaceUploads tests that uploads are replaced and keep their order
func TestReplaceUploads(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()

	require.NoError(t, db.ReplaceUploads(ctx, []Upload{
		CreateTestUpload("old.eml", "Old"),
	}))
	require.NoError(t, db.ReplaceUploads(ctx, []Upload{
		CreateTestUpload("b.eml", "B"),
		CreateTestUpload("a.eml", "A"),
	}))

	uploads, err := db.ListUploads(ctx)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "b.eml", uploads[0].Name)
	assert.Equal(t, "a.eml", uploads[1].Name)
	assert.Equal(t, int64(len(uploads[0].Content)), uploads[0].Size)
	assert.Contains(t, uploads[1].Content, "Subject: A")

	count, err := db.CountUploads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestReplaceUploadsEmpty tests clearing all uploads
func TestReplaceUploadsEmpty(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()

	require.NoError(t, db.ReplaceUploads(ctx, []Upload{CreateTestUpload("a.eml", "A")}))
	require.NoError(t, db.ReplaceUploads(ctx, nil))

	count, err := db.CountUploads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// TestLoadStateEmpty tests that a fresh database reports nothing saved
func TestLoadStateEmpty(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	s, ok, err := db.LoadState(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.Settings.RemoveReturnPath, "Defaults should apply when nothing is saved")
}

// TestSaveAndLoadState tests a full workspace round trip through SQLite
func TestSaveAndLoadState(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()

	state := workspace.NewState()
	state.Files = []workspace.File{
		{Name: "one.eml", Content: "Subject: one\n"},
		{Name: "two.txt", Content: "Subject: two\n"},
	}
	state.PastedText = "Message-ID: <a@b>"
	state.Settings = workspace.Settings{FromName: "Alice", Subject: "Hello", RemoveReturnPath: false}
	state.ProcessedContent = "not stored"

	require.NoError(t, db.SaveState(ctx, state))

	loaded, ok, err := db.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, state.Files, loaded.Files)
	assert.Equal(t, state.PastedText, loaded.PastedText)
	assert.Equal(t, state.Settings, loaded.Settings)
	assert.Empty(t, loaded.ProcessedContent, "Derived output is not persisted")
}

// TestStoreWithDatabase tests the workspace store persisting through a file database
func TestStoreWithDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "workspace.db")

	first, err := Open(path)
	require.NoError(t, err)
	st, err := workspace.NewStore(ctx, first)
	require.NoError(t, err)
	_, err = st.Dispatch(ctx, workspace.AddFiles{Files: []workspace.File{{Name: "kept.eml", Content: "x"}}})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer CleanupTestDB(t, second)

	reopened, err := workspace.NewStore(ctx, second)
	require.NoError(t, err)
	files := reopened.Snapshot().Files
	require.Len(t, files, 1)
	assert.Equal(t, "kept.eml", files[0].Name)
}
