/*
Package parser decodes the legacy asset formats of the tactics game.

The .aem map format is big-endian and fully positional:

	[author length]  uint16
	[author]         UTF-8 bytes
	[team access]    4 x uint8 (non-zero = true)
	[width]          int32
	[height]         int32
	[tile grid]      width*height x int16, column-major
	[unit count]     int32
	[units]          unitCount x {team, type, x, y} int32

Nothing but the author string is length-prefixed, so a truncated file can
only be detected by running out of bytes.
*/
package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"

	"github.com/ancient-empires/assetconv/internal/models"
)

// Map decode errors.
var (
	ErrTruncatedInput   = errors.New("truncated input")
	ErrInvalidDimension = errors.New("invalid map dimension")
	ErrInvalidUnitCount = errors.New("invalid unit count")
	ErrInvalidAuthor    = errors.New("author is not valid UTF-8")
)

const (
	unitRecordSize = 16
	tileSize       = 2
	headerFixed    = 2 + models.TeamCount + 4 + 4
)

// DecodeError reports which field of a map file could not be decoded.
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// mapReader walks a byte buffer, failing instead of reading past the end.
type mapReader struct {
	buf []byte
	off int
}

func (r *mapReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *mapReader) take(field string, n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, &DecodeError{
			Field:  field,
			Offset: r.off,
			Err:    fmt.Errorf("%w: need %d bytes, %d left", ErrTruncatedInput, n, r.remaining()),
		}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *mapReader) readUint16(field string) (uint16, error) {
	b, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *mapReader) readInt32(field string) (int32, error) {
	b, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// DecodeMap decodes a complete .aem buffer. Bytes after the unit list are
// ignored; use DecodeMapConsumed to detect them.
func DecodeMap(data []byte) (*models.MapFile, error) {
	m, _, err := DecodeMapConsumed(data)
	return m, err
}

// DecodeMapConsumed decodes a .aem buffer and also returns how many bytes
// the map occupied.
func DecodeMapConsumed(data []byte) (*models.MapFile, int, error) {
	r := &mapReader{buf: data}
	m := &models.MapFile{}

	authorLen, err := r.readUint16("author length")
	if err != nil {
		return nil, r.off, err
	}
	author, err := r.take("author", int(authorLen))
	if err != nil {
		return nil, r.off, err
	}
	if !utf8.Valid(author) {
		return nil, r.off, &DecodeError{Field: "author", Offset: 2, Err: ErrInvalidAuthor}
	}
	m.Author = string(author)

	access, err := r.take("team access", models.TeamCount)
	if err != nil {
		return nil, r.off, err
	}
	for i, b := range access {
		m.TeamAccess[i] = b != 0
	}

	width, err := r.readInt32("width")
	if err != nil {
		return nil, r.off, err
	}
	height, err := r.readInt32("height")
	if err != nil {
		return nil, r.off, err
	}
	if width <= 0 || height <= 0 {
		return nil, r.off, &DecodeError{
			Field:  "dimensions",
			Offset: r.off - 8,
			Err:    fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height),
		}
	}
	m.Width = int(width)
	m.Height = int(height)

	// Check the grid fits before allocating for it.
	gridBytes := int64(width) * int64(height) * tileSize
	if gridBytes > int64(r.remaining()) {
		return nil, r.off, &DecodeError{
			Field:  "tile grid",
			Offset: r.off,
			Err:    fmt.Errorf("%w: grid %dx%d needs %d bytes, %d left", ErrTruncatedInput, width, height, gridBytes, r.remaining()),
		}
	}
	grid, _ := r.take("tile grid", int(gridBytes))
	m.Tiles = transposeColumns(grid, m.Width, m.Height)

	count, err := r.readInt32("unit count")
	if err != nil {
		return nil, r.off, err
	}
	if count < 0 {
		return nil, r.off, &DecodeError{
			Field:  "unit count",
			Offset: r.off - 4,
			Err:    fmt.Errorf("%w: %d", ErrInvalidUnitCount, count),
		}
	}
	unitBytes := int64(count) * unitRecordSize
	if unitBytes > int64(r.remaining()) {
		return nil, r.off, &DecodeError{
			Field:  "units",
			Offset: r.off,
			Err:    fmt.Errorf("%w: %d units need %d bytes, %d left", ErrTruncatedInput, count, unitBytes, r.remaining()),
		}
	}

	m.Units = make([]models.UnitPlacement, count)
	for i := range m.Units {
		rec, _ := r.take("unit", unitRecordSize)
		m.Units[i] = models.UnitPlacement{
			Team: int(int32(binary.BigEndian.Uint32(rec[0:4]))),
			Type: int(int32(binary.BigEndian.Uint32(rec[4:8]))),
			X:    int(int32(binary.BigEndian.Uint32(rec[8:12]))),
			Y:    int(int32(binary.BigEndian.Uint32(rec[12:16]))),
		}
	}

	return m, r.off, nil
}

// transposeColumns turns the column-major grid bytes into rows.
func transposeColumns(grid []byte, width, height int) [][]int16 {
	cells := make([]int16, width*height)
	rows := make([][]int16, height)
	for y := range rows {
		rows[y] = cells[y*width : (y+1)*width : (y+1)*width]
	}
	i := 0
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			rows[y][x] = int16(binary.BigEndian.Uint16(grid[i:]))
			i += tileSize
		}
	}
	return rows
}

// DecodeMapFile reads a map file into memory, closes it and decodes it.
// The int result is the number of unread bytes after the unit list.
func DecodeMapFile(filePath string) (*models.MapFile, int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, 0, err
	}
	m, consumed, err := DecodeMapConsumed(data)
	if err != nil {
		return nil, 0, err
	}
	return m, len(data) - consumed, nil
}

// EncodedSize returns the number of bytes m occupies in .aem form.
func EncodedSize(m *models.MapFile) int {
	return headerFixed + len(m.Author) + m.Width*m.Height*tileSize + 4 + len(m.Units)*unitRecordSize
}

// EncodeMap writes m in .aem form. The legacy tools never re-serialise
// maps; the encoder exists to build fixtures and check round trips.
func EncodeMap(w io.Writer, m *models.MapFile) error {
	if len(m.Author) > math.MaxUint16 {
		return fmt.Errorf("author is %d bytes, limit is %d", len(m.Author), math.MaxUint16)
	}
	if !utf8.ValidString(m.Author) {
		return ErrInvalidAuthor
	}
	if m.Width <= 0 || m.Height <= 0 || m.Width > math.MaxInt32 || m.Height > math.MaxInt32 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, m.Width, m.Height)
	}
	if len(m.Tiles) != m.Height {
		return fmt.Errorf("tile grid has %d rows, height is %d", len(m.Tiles), m.Height)
	}
	for y, row := range m.Tiles {
		if len(row) != m.Width {
			return fmt.Errorf("tile row %d has %d cells, width is %d", y, len(row), m.Width)
		}
	}

	if err := binary.Write(w, binary.BigEndian, uint16(len(m.Author))); err != nil {
		return fmt.Errorf("writing author length: %w", err)
	}
	if _, err := io.WriteString(w, m.Author); err != nil {
		return fmt.Errorf("writing author: %w", err)
	}

	var access [models.TeamCount]uint8
	for i, ok := range m.TeamAccess {
		if ok {
			access[i] = 1
		}
	}
	if _, err := w.Write(access[:]); err != nil {
		return fmt.Errorf("writing team access: %w", err)
	}

	dims := [2]int32{int32(m.Width), int32(m.Height)}
	if err := binary.Write(w, binary.BigEndian, dims); err != nil {
		return fmt.Errorf("writing dimensions: %w", err)
	}

	columns := make([]int16, 0, m.Width*m.Height)
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			columns = append(columns, m.Tiles[y][x])
		}
	}
	if err := binary.Write(w, binary.BigEndian, columns); err != nil {
		return fmt.Errorf("writing tile grid: %w", err)
	}

	units := make([]int32, 0, 1+len(m.Units)*4)
	units = append(units, int32(len(m.Units)))
	for _, u := range m.Units {
		units = append(units, int32(u.Team), int32(u.Type), int32(u.X), int32(u.Y))
	}
	if err := binary.Write(w, binary.BigEndian, units); err != nil {
		return fmt.Errorf("writing units: %w", err)
	}

	return nil
}

// MarshalMap returns the .aem bytes for m.
func MarshalMap(m *models.MapFile) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(EncodedSize(m))
	if err := EncodeMap(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
