package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := solid(w, h, color.NRGBA{0, 255, 0, 255})
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestForSizeOrientation(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, portraitFile, 10, 20)
	writeAsset(t, dir, landscapeFile, 20, 10)

	assets := NewAssets(dir)

	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"clearly portrait", 100, 200, 10, 20},
		{"just above threshold", 100, 106, 10, 20},
		{"at threshold", 100, 105, 20, 10},
		{"square", 100, 100, 20, 10},
		{"landscape", 200, 100, 20, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img, err := assets.ForSize(tc.w, tc.h)
			require.NoError(t, err)
			assert.Equal(t, tc.wantW, img.Bounds().Dx())
			assert.Equal(t, tc.wantH, img.Bounds().Dy())
		})
	}
}

func TestForSizeCachesLoadedAssets(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, landscapeFile, 20, 10)

	assets := NewAssets(dir)

	first, err := assets.ForSize(100, 100)
	require.NoError(t, err)

	// Removing the file must not matter once the image is cached.
	require.NoError(t, os.Remove(filepath.Join(dir, landscapeFile)))

	second, err := assets.ForSize(100, 100)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestForSizeMissingAsset(t *testing.T) {
	assets := NewAssets(t.TempDir())

	_, err := assets.ForSize(100, 200)
	assert.Error(t, err)

	var img *image.NRGBA
	img, err = assets.ForSize(100, 200)
	assert.Nil(t, img)
	assert.Error(t, err, "failed loads are not cached as nil successes")
}
