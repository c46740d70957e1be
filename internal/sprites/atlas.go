package sprites

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"
)

// Region is a named rectangle of a texture atlas page.
type Region struct {
	Name string
	X, Y int
	W, H int
}

// Rect returns the region's bounds in page coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// ParseAtlas reads a libGDX texture atlas. Unindented lines are either
// page headers (an image file name or a "key: value" line) or region
// names; indented "key: value" lines are properties of the current
// region. Regions without both xy and size are ignored. A name that
// repeats replaces the earlier region but keeps its position.
func ParseAtlas(r io.Reader) ([]Region, error) {
	var (
		regions []Region
		pos     = make(map[string]int)
		name    string
		props   map[string]string
		lineNo  int
	)

	flush := func() error {
		if name == "" {
			return nil
		}
		xy, hasXY := props["xy"]
		size, hasSize := props["size"]
		if !hasXY || !hasSize {
			return nil
		}
		x, y, err := parsePair(xy)
		if err != nil {
			return fmt.Errorf("region %s xy: %w", name, err)
		}
		w, h, err := parsePair(size)
		if err != nil {
			return fmt.Errorf("region %s size: %w", name, err)
		}
		reg := Region{Name: name, X: x, Y: y, W: w, H: h}
		if i, ok := pos[name]; ok {
			regions[i] = reg
		} else {
			pos[name] = len(regions)
			regions = append(regions, reg)
		}
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if name == "" {
				continue
			}
			key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
			if !ok {
				return nil, fmt.Errorf("line %d: expected key: value, got %q", lineNo, line)
			}
			props[strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}

		if err := flush(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		name = ""
		if strings.Contains(line, ":") || strings.HasSuffix(strings.ToLower(line), ".png") {
			continue
		}
		name = line
		props = make(map[string]string)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return regions, nil
}

// ParseAtlasFile reads a texture atlas from disk.
func ParseAtlasFile(path string) ([]Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseAtlas(f)
}

func parsePair(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected two comma separated numbers, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// SliceAtlas crops every region out of page. Regions that fall outside
// the page or whose name is not a plain file name are returned as errors
// and skipped.
func SliceAtlas(page image.Image, regions []Region) ([]Sprite, []error) {
	bounds := page.Bounds()
	var (
		out  []Sprite
		errs []error
	)
	for _, reg := range regions {
		if err := ValidateName(reg.Name); err != nil {
			errs = append(errs, fmt.Errorf("region %q: %w", reg.Name, err))
			continue
		}
		rect := reg.Rect().Add(bounds.Min)
		if reg.W <= 0 || reg.H <= 0 || !rect.In(bounds) {
			errs = append(errs, fmt.Errorf("region %s %v lies outside the %dx%d page", reg.Name, reg.Rect(), bounds.Dx(), bounds.Dy()))
			continue
		}
		out = append(out, Sprite{Name: reg.Name, Image: crop(page, rect)})
	}
	return out, errs
}
