// Package sprites cuts sprite sheets into individual images and indexes
// the results for the web client.
package sprites

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Sprite is a named image cut from a sheet.
type Sprite struct {
	Name  string
	Image image.Image
}

// SliceOptions tunes GridSlice.
type SliceOptions struct {
	Scale     int  // integer upscale factor, 1 or less keeps the size
	SkipEmpty bool // drop cells whose pixels are all fully transparent
}

// GridSlice cuts img into tileW x tileH cells named tile_<row>_<col>.
// Partial cells at the right and bottom edges are dropped.
func GridSlice(img image.Image, tileW, tileH int, opts SliceOptions) ([]Sprite, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", tileW, tileH)
	}
	b := img.Bounds()
	cols := b.Dx() / tileW
	rows := b.Dy() / tileH

	var out []Sprite
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rect := image.Rect(c*tileW, r*tileH, (c+1)*tileW, (r+1)*tileH).Add(b.Min)
			cell := crop(img, rect)
			if opts.SkipEmpty && isTransparent(cell) {
				continue
			}
			out = append(out, Sprite{
				Name:  fmt.Sprintf("tile_%d_%d", r, c),
				Image: scale(cell, opts.Scale),
			})
		}
	}
	return out, nil
}

// crop copies rect of src into a new image anchored at the origin.
func crop(src image.Image, rect image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(dst, image.Point{}, src, rect, xdraw.Src, nil)
	return dst
}

// scale enlarges img by an integer factor without smoothing, which keeps
// pixel art crisp.
func scale(img *image.NRGBA, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func isTransparent(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// LoadImage decodes a PNG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// ValidateName rejects sprite names that would not land directly in the
// output directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return fmt.Errorf("invalid sprite name %q", name)
	}
	return nil
}

// Save writes each sprite to dir as <name>.png and returns the file names
// in the order written. Every name is checked before anything is written.
func Save(dir string, sprites []Sprite) ([]string, error) {
	for _, s := range sprites {
		if err := ValidateName(s.Name); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating sprite directory: %w", err)
	}

	names := make([]string, 0, len(sprites))
	for _, s := range sprites {
		name := s.Name + ".png"
		if err := savePNG(filepath.Join(dir, name), s.Image); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
