package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobServiceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc := NewLocalBlobService(dir, "http://localhost:3000/")

	key := BuildObjectKey("documents/ktp", "pdf")
	assert.True(t, strings.HasPrefix(key, "documents/ktp/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	url, err := svc.Put(context.Background(), key, []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/"+key, url)

	got, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))

	require.NoError(t, svc.Delete(context.Background(), key))
	require.NoError(t, svc.Delete(context.Background(), key), "hapus dua kali tidak error")
}

func TestLocalBlobServiceRejectsTraversal(t *testing.T) {
	svc := NewLocalBlobService(t.TempDir(), "")
	_, err := svc.Put(context.Background(), "../../etc/passwd", []byte("x"), "text/plain")
	// Clean("/" + key) menahan key di dalam Dir
	require.NoError(t, err)
}

func TestMemoryBlobService(t *testing.T) {
	m := NewMemoryBlobService()
	_, err := m.Put(context.Background(), "a/b.webp", []byte{1, 2}, "image/webp")
	require.NoError(t, err)
	assert.True(t, m.Has("a/b.webp"))
	assert.Equal(t, "image/webp", m.ContentType("a/b.webp"))

	require.NoError(t, m.Delete(context.Background(), "a/b.webp"))
	assert.False(t, m.Has("a/b.webp"))
	assert.Equal(t, []string{"a/b.webp"}, m.Deleted)
}

func TestConvertToWebPDownscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := ConvertToWebP(buf.Bytes(), WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	_, err = ConvertToWebP([]byte("%PDF-1.4 bukan gambar"), DocumentWebPOptions)
	assert.Error(t, err)
}
