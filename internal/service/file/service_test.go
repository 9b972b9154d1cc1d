package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestUploadEmployeePhoto(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewFileService(local)

	url, err := svc.UploadEmployeePhoto(ctx, "emp-1", pngOf(t, 1024, 256), "image/png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/photos/emp-1/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(local.BasePath(), filepath.FromSlash(key)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)

	require.NoError(t, svc.DeleteByURL(ctx, url))
	_, err = os.Stat(filepath.Join(local.BasePath(), filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadEmployeePhoto_Rejects(t *testing.T) {
	ctx := context.Background()
	local, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	svc := NewFileService(local)

	_, err = svc.UploadEmployeePhoto(ctx, "emp-1", pngOf(t, 10, 10), "application/pdf")
	assert.ErrorIs(t, err, employee.ErrInvalidPhoto)

	_, err = svc.UploadEmployeePhoto(ctx, "emp-1", strings.NewReader("not an image"), "image/jpeg")
	assert.ErrorIs(t, err, employee.ErrInvalidPhoto)
}

func TestFitWithin_KeepsSmallImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 300))
	assert.Same(t, image.Image(src), fitWithin(src, 512))

	out := fitWithin(image.NewRGBA(image.Rect(0, 0, 300, 1200)), 512)
	assert.Equal(t, 128, out.Bounds().Dx())
	assert.Equal(t, 512, out.Bounds().Dy())
}
