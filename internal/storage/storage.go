package storage

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecommerce-api/internal/apperr"
)

const (
	// MaxFileSize caps a single uploaded image at 50MB.
	MaxFileSize = 50 << 20
	// MaxFilesPerRequest caps the number of images per upload.
	MaxFilesPerRequest = 10
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tiff": true, ".svg": true,
	".avif": true, ".ico": true,
}

// ObjectStorage stores uploaded files and returns a URL that can be served
// back to clients.
type ObjectStorage interface {
	Store(file *multipart.FileHeader) (string, error)
	Delete(url string) error
}

// ValidateFile applies the shared upload policy: image extension or image MIME
// type, and the size cap. Both upload targets go through this one routine.
func ValidateFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return apperr.New(apperr.Validation, "File exceeds the 50MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if !allowedExtensions[ext] && !strings.HasPrefix(contentType, "image/") {
		return apperr.New(apperr.Validation, "Only image files are allowed")
	}
	return nil
}

// ValidateFiles checks the per-request file count and each file.
func ValidateFiles(files []*multipart.FileHeader) error {
	if len(files) > MaxFilesPerRequest {
		return apperr.New(apperr.Validation, "At most 10 files per upload")
	}
	for _, file := range files {
		if err := ValidateFile(file); err != nil {
			return err
		}
	}
	return nil
}

// LocalStorage writes uploads to a directory served under /uploads.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{dir: dir}, nil
}

// Dir returns the directory uploads are written to, for static serving.
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Store(file *multipart.FileHeader) (string, error) {
	if err := ValidateFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Failed to read upload", err)
	}
	defer src.Close()

	// Unique name so concurrent uploads never overwrite each other.
	name := fmt.Sprintf("image-%d-%d%s",
		time.Now().UnixMilli(), rand.Int63n(1_000_000_000),
		strings.ToLower(filepath.Ext(file.Filename)))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Failed to store upload", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", apperr.Wrap(apperr.Internal, "Failed to store upload", err)
	}
	return "/uploads/" + name, nil
}

func (s *LocalStorage) Delete(url string) error {
	name := filepath.Base(url)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.Internal, "Failed to delete upload", err)
	}
	return nil
}
