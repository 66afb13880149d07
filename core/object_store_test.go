package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:3002/storage/product-images/product-1.jpg", "product-1.jpg"},
		{"https://cdn.example.com/a/b/c.webp?v=2", "c.webp"},
		{"product-2.jpg", "product-2.jpg"},
		{"", ""},
		{"https://cdn.example.com/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectNameFromURL(tt.in), tt.in)
	}
}

func TestLocalStore_PutRemove(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "product-images", "http://localhost:3002/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "product-1.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3002/storage/product-images/product-1.jpg", url)

	data, err := os.ReadFile(filepath.Join(root, "product-images", "product-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, store.Remove(context.Background(), ObjectNameFromURL(url)))
	assert.ErrorIs(t, store.Remove(context.Background(), "product-1.jpg"), ErrObjectNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "b", "")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.jpg", []byte("x"), "")
	assert.Error(t, err)
	assert.Error(t, store.Remove(context.Background(), "../escape.jpg"))
}
