package storage

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-api/internal/apperr"
)

func fileHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="images"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["images"]
	require.Len(t, files, 1)
	return files[0]
}

func TestValidateFileAcceptsImageExtensions(t *testing.T) {
	for _, name := range []string{"photo.jpg", "photo.PNG", "icon.svg", "anim.gif"} {
		err := ValidateFile(fileHeader(t, name, "", "data"))
		assert.NoError(t, err, name)
	}
}

func TestValidateFileAcceptsImageMIMEWithOddExtension(t *testing.T) {
	err := ValidateFile(fileHeader(t, "photo.bin", "image/jpeg", "data"))
	assert.NoError(t, err)
}

func TestValidateFileRejectsNonImage(t *testing.T) {
	err := ValidateFile(fileHeader(t, "script.exe", "application/octet-stream", "data"))
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestValidateFileRejectsOversize(t *testing.T) {
	file := fileHeader(t, "photo.jpg", "image/jpeg", "data")
	file.Size = MaxFileSize + 1

	err := ValidateFile(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "50MB")
}

func TestValidateFilesRejectsTooMany(t *testing.T) {
	files := make([]*multipart.FileHeader, MaxFilesPerRequest+1)
	for i := range files {
		files[i] = fileHeader(t, "photo.jpg", "image/jpeg", "data")
	}

	err := ValidateFiles(files)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	assert.NoError(t, ValidateFiles(files[:MaxFilesPerRequest]))
}

func TestLocalStorageStoreAndDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	url, err := store.Store(fileHeader(t, "photo.jpg", "image/jpeg", "fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/image-"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	onDisk := filepath.Join(store.Dir(), filepath.Base(url))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, store.Delete(url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageStoreUniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		url, err := store.Store(fileHeader(t, "photo.jpg", "image/jpeg", "data"))
		require.NoError(t, err)
		assert.False(t, seen[url], "duplicate upload name %s", url)
		seen[url] = true
	}
}

func TestLocalStorageDeleteMissingFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("/uploads/image-never-existed.jpg"))
}

func TestLocalStorageStoreRejectsInvalidFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Store(fileHeader(t, "malware.exe", "application/octet-stream", "data"))
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
