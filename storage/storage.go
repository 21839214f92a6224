// Package storage keeps uploaded product images on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cafehere/apperr"
	"cafehere/config"
)

type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes the object; a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns an address a client can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ValidateImage checks the size limit and extension of an upload and returns
// its lower-cased extension and content type.
func ValidateImage(filename string, size, maxSize int64) (ext, contentType string, err error) {
	if size > maxSize {
		return "", "", apperr.Field("image", fmt.Sprintf("file too large (max %dMB)", maxSize>>20))
	}
	ext = strings.ToLower(filepath.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", "", apperr.Field("image", "invalid file type, only JPG/JPEG/PNG allowed")
	}
	return ext, contentType, nil
}

// ProductImageKey names a new image object for the product. Keys are unique per
// upload so a replaced image never shadows its successor in caches.
func ProductImageKey(productID uint, ext string) string {
	return fmt.Sprintf("products/product-%d-%d%s", productID, time.Now().UnixNano(), ext)
}

// New builds the backend selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return NewLocal(cfg.UploadDir, cfg.UploadURLPrefix)
	}
}
