package importer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// imageExtensions lists the file extensions picked up by a directory scan.
var imageExtensions = map[string]bool{
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether path has an extension ScanDir accepts.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanResult is the outcome of a directory scan.
type ScanResult struct {
	Sprites []model.Sprite
	// Images holds decoded pixels keyed by sprite ID. It is nil when the
	// scan only read image headers.
	Images map[string]image.Image
}

// SpriteName derives a sprite name from a file path: the base name without
// its extension.
func SpriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ScanDir walks dir recursively in lexical order and decodes every image
// file into a sprite. A file that cannot be decoded aborts the scan.
func ScanDir(dir string) (ScanResult, error) {
	return scan(dir, true)
}

// ScanDirSizes is ScanDir without pixel decoding: only image headers are
// read, which is enough for planning layouts.
func ScanDirSizes(dir string) (ScanResult, error) {
	return scan(dir, false)
}

func scan(dir string, decode bool) (ScanResult, error) {
	result := ScanResult{}
	if decode {
		result.Images = make(map[string]image.Image)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to open sprite directory: %w", err)
	}
	if !info.IsDir() {
		return ScanResult{}, fmt.Errorf("%s is not a directory", dir)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(path) {
			return nil
		}

		sprite, img, err := readSprite(path, decode)
		if err != nil {
			return err
		}
		result.Sprites = append(result.Sprites, sprite)
		if decode {
			result.Images[sprite.ID] = img
		}
		return nil
	})
	if err != nil {
		return ScanResult{}, err
	}
	return result, nil
}

func readSprite(path string, decode bool) (model.Sprite, image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Sprite{}, nil, fmt.Errorf("failed to open sprite: %w", err)
	}
	defer f.Close()

	var (
		w, h int
		img  image.Image
	)
	if decode {
		img, _, err = image.Decode(f)
		if err == nil {
			b := img.Bounds()
			w, h = b.Dx(), b.Dy()
		}
	} else {
		var cfg image.Config
		cfg, _, err = image.DecodeConfig(f)
		w, h = cfg.Width, cfg.Height
	}
	if err != nil {
		return model.Sprite{}, nil, fmt.Errorf("failed to decode sprite %s: %w", path, err)
	}

	sprite := model.NewSprite(SpriteName(path), w, h)
	sprite.Source = path
	return sprite, img, nil
}
