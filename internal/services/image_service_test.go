package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_Upload(t *testing.T) {
	store := newFakeImageStore()
	svc := NewImageService(store, testMount, 1<<20)

	url, err := svc.Upload(bytes.NewReader(pngBytes(t)), "cover.PNG", "https://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/images/img001.PNG", url)
	assert.Contains(t, store.files, "img001.PNG")
}

func TestImageService_Upload_Rejects(t *testing.T) {
	svc := NewImageService(newFakeImageStore(), testMount, 64)

	cases := map[string][]byte{
		"empty":     {},
		"not image": []byte("plain text, definitely not pixels"),
		"too large": bytes.Repeat([]byte{0x89}, 65),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(bytes.NewReader(data), "x.png", "http://localhost")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestImageService_LocalName(t *testing.T) {
	svc := NewImageService(newFakeImageStore(), testMount, 1)

	cases := []struct {
		url  string
		name string
		ok   bool
	}{
		{"http://localhost:3000/images/abc.png", "abc.png", true},
		{"/images/abc.png", "abc.png", true},
		{"http://localhost/images/abc.png?v=2", "abc.png", true},
		{"https://cdn.example.com/abc.png", "", false},
		{"http://localhost/images/", "", false},
		{"http://localhost/images/sub/abc.png", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		name, ok := svc.LocalName(tc.url)
		assert.Equal(t, tc.ok, ok, tc.url)
		assert.Equal(t, tc.name, name, tc.url)
	}
}

func TestImageService_DeleteAll(t *testing.T) {
	store := newFakeImageStore()
	store.deleteErr["broken.png"] = errors.New("io error")
	svc := NewImageService(store, testMount, 1)

	result := svc.DeleteAll([]string{
		"http://localhost/images/ok.png",
		"http://localhost/images/broken.png",
		"https://elsewhere.example.com/pic.png",
	})

	assert.False(t, result.OK())
	assert.Equal(t, []string{"http://localhost/images/ok.png"}, result.Removed)
	assert.Equal(t, []string{"https://elsewhere.example.com/pic.png"}, result.Skipped)
	assert.Contains(t, result.Failed, "http://localhost/images/broken.png")
	assert.Equal(t, []string{"ok.png"}, store.deleted)
}

func TestImageService_CleanupNeverFails(t *testing.T) {
	store := newFakeImageStore()
	store.deleteErr["a.png"] = errors.New("gone wrong")
	svc := NewImageService(store, testMount, 1)

	result := svc.cleanupImages(context.Background(), 1, []string{"/images/a.png", "/images/b.png"})
	assert.Len(t, result.Failed, 1)
	assert.True(t, strings.HasSuffix(result.Removed[0], "b.png"))
}
