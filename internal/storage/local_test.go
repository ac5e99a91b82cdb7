package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutGet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewLocal(dir)

	ref, err := store.Put(ctx, "cover.JPG", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, LocalPrefix))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	onDisk, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, LocalPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(onDisk))

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(got))
}

func TestLocal_Get_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(t.TempDir())

	_, err := store.Get(ctx, "uploads/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "uploads/../etc/passwd")
	assert.ErrorIs(t, err, ErrBadReference)

	_, err = store.Get(ctx, "https://example.com/x.png")
	assert.ErrorIs(t, err, ErrBadReference)
}

func TestLocal_Put_TooLarge(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)

	big := strings.NewReader(strings.Repeat("x", MaxImageSize+1))
	_, err := store.Put(context.Background(), "big.png", big)
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestObjectName(t *testing.T) {
	assert.True(t, strings.HasSuffix(objectName("a.png"), ".png"))
	assert.Equal(t, 36, len(objectName("noext")))
	assert.Equal(t, 36, len(objectName("evil.p$p")))
	assert.Equal(t, 36, len(objectName("x.waytoolongext")))
}

func TestLocal_Get_DotNames(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(filepath.Join(t.TempDir(), "uploads"))

	for _, ref := range []string{"uploads/..", "uploads/.", "uploads/"} {
		_, err := store.Get(ctx, ref)
		assert.ErrorIs(t, err, ErrBadReference, ref)
	}
}

func TestLocal_Delete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewLocal(dir)

	ref, err := store.Put(ctx, "cover.png", strings.NewReader("png bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)

	// already gone
	assert.NoError(t, store.Delete(ctx, ref))
	assert.ErrorIs(t, store.Delete(ctx, "uploads/.."), ErrBadReference)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
