package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"strings"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Import for WebP decoding support
)

const (
	// MaxPhotoSize bounds uploads before decoding.
	MaxPhotoSize = 5 << 20
	// photoMaxEdge is the longest side of a stored profile photo.
	photoMaxEdge = 512
	photoQuality = 85
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type FileService interface {
	// UploadEmployeePhoto normalises a profile photo to a bounded JPEG and returns its public URL.
	UploadEmployeePhoto(ctx context.Context, employeeID string, file io.Reader, contentType string) (string, error)

	// DeleteByURL removes a file previously returned by an upload.
	DeleteByURL(ctx context.Context, url string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadEmployeePhoto(ctx context.Context, employeeID string, file io.Reader, contentType string) (string, error) {
	if !allowedPhotoTypes[strings.ToLower(contentType)] {
		return "", employee.ErrInvalidPhoto
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if len(buffer) > MaxPhotoSize {
		return "", employee.ErrInvalidPhoto
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return "", employee.ErrInvalidPhoto
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, fitWithin(img, photoMaxEdge), &jpeg.Options{Quality: photoQuality}); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}

	key := path.Join("photos", employeeID, uuid.NewString()+".jpg")
	uploaded, err := s.storage.Upload(ctx, &out, key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.storage.URL(uploaded), nil
}

func (s *fileServiceImpl) DeleteByURL(ctx context.Context, url string) error {
	prefix := s.storage.URL("")
	if url == "" || !strings.HasPrefix(url, prefix) {
		return nil
	}
	return s.storage.Delete(ctx, strings.TrimPrefix(url, prefix))
}

// fitWithin downsizes src so neither side exceeds maxEdge, keeping the aspect ratio.
func fitWithin(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
