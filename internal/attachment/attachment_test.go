package attachment_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
)

func TestValidateFileName(t *testing.T) {
	type testCase struct {
		name    string
		file    string
		wantErr bool
	}

	tests := []testCase{
		{name: "png", file: "image.png"},
		{name: "jpg", file: "receipt.jpg"},
		{name: "jpeg upper case", file: "RECEIPT.JPEG"},
		{name: "txt", file: "document.txt", wantErr: true},
		{name: "pdf", file: "facture.pdf", wantErr: true},
		{name: "no extension", file: "png", wantErr: true},
		{name: "empty", file: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := attachment.ValidateFileName(tt.file)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var vErr *attachment.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "Choose a jpg, jpeg, or png format", err.Error())
			assert.Equal(t, tt.file, vErr.FileName)
		})
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, attachment.IsImage("https://cdn.test/preview-facture-free-201801-pdf-1.jpg?alt=media&token=abc"))
	assert.False(t, attachment.IsImage("https://cdn.test/facture.pdf"))
}

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestStorage_PutGet(t *testing.T) {
	s, err := attachment.Open(filepath.Join(t.TempDir(), "files.db"), "http://localhost:8080/")
	require.NoError(t, err)
	defer s.Close()

	url, err := s.Put(context.Background(), bill.File{Name: "image.png", Data: pngBytes})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/files/"))

	key := strings.TrimPrefix(url, "http://localhost:8080/files/")
	assert.True(t, attachment.IsImage(url))

	obj, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "image.png", obj.Name)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, pngBytes, obj.Data)
}

func TestStorage_RejectsBadExtension(t *testing.T) {
	s, err := attachment.Open(filepath.Join(t.TempDir(), "files.db"), "http://localhost")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Put(context.Background(), bill.File{Name: "document.txt", Data: []byte("hello")})

	var vErr *attachment.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestStorage_GetMissing(t *testing.T) {
	s, err := attachment.Open(filepath.Join(t.TempDir(), "files.db"), "http://localhost")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, attachment.ErrNotFound)
}
