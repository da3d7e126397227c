package pod

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedepot/icedepot/internal/shared"
)

var (
	pngBytes  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBP"), []byte("VP8 ")...)
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
)

func newStorage(t *testing.T) *FileStorage {
	t.Helper()
	s := NewFileStorage(t.TempDir())
	s.now = func() time.Time { return time.Date(2025, 3, 7, 22, 15, 0, 0, time.UTC) }
	return s
}

func TestSaveAcceptedTypes(t *testing.T) {
	cases := map[string]struct {
		data []byte
		ext  string
	}{
		"png":  {pngBytes, ".png"},
		"jpeg": {jpegBytes, ".jpg"},
		"webp": {webpBytes, ".webp"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := newStorage(t)
			path, err := s.Save(context.Background(), 12, bytes.NewReader(tc.data))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(path, "pod/2025/03/"), path)
			assert.True(t, strings.HasSuffix(path, tc.ext), path)
			assert.Contains(t, path, "_order12_")

			f, err := s.Open(context.Background(), path)
			require.NoError(t, err)
			defer f.Close()
			got, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, tc.data, got)
		})
	}
}

func TestSaveRejectsEmptyUpload(t *testing.T) {
	s := newStorage(t)

	_, err := s.Save(context.Background(), 1, bytes.NewReader(nil))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	s := newStorage(t)

	_, err := s.Save(context.Background(), 1, bytes.NewReader(gifBytes))
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "unsupported file type")

	_, err = s.Save(context.Background(), 1, strings.NewReader("plain text"))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	s := newStorage(t)

	big := append(append([]byte{}, pngBytes...), make([]byte, MaxUploadBytes)...)
	_, err := s.Save(context.Background(), 1, bytes.NewReader(big))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := newStorage(t)

	_, err := s.Open(context.Background(), "../secrets.txt")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = s.Open(context.Background(), "/etc/passwd")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestOpenMissingPhoto(t *testing.T) {
	s := newStorage(t)

	_, err := s.Open(context.Background(), "pod/2025/03/nope.png")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSaveCreatesDatePartitionedDirectories(t *testing.T) {
	root := t.TempDir()
	s := NewFileStorage(root)
	s.now = func() time.Time { return time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC) }

	path, err := s.Save(context.Background(), 7, bytes.NewReader(jpegBytes))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.True(t, strings.HasPrefix(path, "pod/2024/12/"), path)
}
