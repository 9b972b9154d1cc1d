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

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("hello"), "photos/dd001/a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "photos/dd001/a.jpg", key)
	assert.Equal(t, "http://localhost:8080/uploads/photos/dd001/a.jpg", s.URL(key))

	data, err := os.ReadFile(filepath.Join(s.BasePath(), "photos", "dd001", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("x"), "../escape.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.ErrorIs(t, s.Delete(ctx, "../../etc/passwd"), ErrInvalidPath)
}
