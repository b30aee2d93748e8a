package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newMediaService(t *testing.T, maxBytes int64) (*MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewMediaService(&config.Config{UploadDir: dir, MaxUploadBytes: maxBytes}, zerolog.Nop()), dir
}

func TestSaveImage(t *testing.T) {
	svc, dir := newMediaService(t, 1024)

	url, err := svc.SaveImage(bytes.NewReader(pngHeader), int64(len(pngHeader)), "jee-2023")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/jee-2023/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestSaveImageSanitizesFolder(t *testing.T) {
	svc, _ := newMediaService(t, 1024)

	url, err := svc.SaveImage(bytes.NewReader(pngHeader), int64(len(pngHeader)), "../../etc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/misc/"))
}

func TestSaveImageRejectsNonImage(t *testing.T) {
	svc, _ := newMediaService(t, 1024)

	_, err := svc.SaveImage(strings.NewReader("plain text, not an image"), 24, "jee-2023")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestSaveImageTooLarge(t *testing.T) {
	svc, dir := newMediaService(t, 16)

	_, err := svc.SaveImage(bytes.NewReader(pngHeader), 17, "x")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = svc.SaveImage(bytes.NewReader(big), 10, "x")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(filepath.Join(dir, "x"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
