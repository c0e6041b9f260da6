package imaging

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

const (
	portraitFile  = "hands_portrait.png"
	landscapeFile = "hands_landscape.png"

	// A base image counts as portrait when height/width exceeds this,
	// leaving a 5% tolerance around square.
	portraitRatio = 1.05
)

// Assets serves the two static overlay PNGs. Files are read from disk
// on first use and cached; the cached images are read-only afterwards
// and safe to share.
type Assets struct {
	dir string

	mu        sync.Mutex
	portrait  *image.NRGBA
	landscape *image.NRGBA
}

// NewAssets creates an asset store rooted at dir.
func NewAssets(dir string) *Assets {
	return &Assets{dir: dir}
}

// ForSize returns the overlay matching the orientation of a base image
// with the given dimensions.
func (a *Assets) ForSize(width, height int) (*image.NRGBA, error) {
	if width > 0 && float64(height)/float64(width) > portraitRatio {
		return a.load(&a.portrait, portraitFile)
	}
	return a.load(&a.landscape, landscapeFile)
}

func (a *Assets) load(cache **image.NRGBA, name string) (*image.NRGBA, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if *cache != nil {
		return *cache, nil
	}

	path := filepath.Join(a.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overlay asset %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode overlay asset %s: %w", path, err)
	}

	*cache = toNRGBA(img)
	return *cache, nil
}
