package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	at := time.Unix(1717200000, 0)
	assert.Equal(t, "teams/3-1717200000.jpg", ObjectKey("teams", 3, "Team Photo.JPG", at))
	assert.Equal(t, "avatars/9-1717200000", ObjectKey("avatars", 9, "noext", at))
}

func TestDiskStoreUpload(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "/public/uploads/")
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "teams/3-1.jpg", strings.NewReader("first"), false))
	b, err := os.ReadFile(filepath.Join(dir, "teams", "3-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	err = store.Upload(ctx, "teams/3-1.jpg", strings.NewReader("second"), false)
	assert.ErrorIs(t, err, ErrObjectExists)

	require.NoError(t, store.Upload(ctx, "teams/3-1.jpg", strings.NewReader("second"), true))
	b, err = os.ReadFile(filepath.Join(dir, "teams", "3-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	assert.Equal(t, "/public/uploads/teams/3-1.jpg", store.PublicURL("teams/3-1.jpg"))
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/public")
	err := store.Upload(context.Background(), "../escape.txt", strings.NewReader("x"), true)
	assert.Error(t, err)
}
