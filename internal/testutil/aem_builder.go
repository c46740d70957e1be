// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"encoding/binary"

	"github.com/ancient-empires/assetconv/internal/models"
)

// AEMBuilder assembles raw .aem bytes field by field. Unlike the encoder
// it writes whatever it is given, so tests can produce malformed files.
type AEMBuilder struct {
	buf []byte
}

// NewAEMBuilder returns an empty builder.
func NewAEMBuilder() *AEMBuilder {
	return &AEMBuilder{}
}

func (b *AEMBuilder) Uint16(v uint16) *AEMBuilder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
	return b
}

func (b *AEMBuilder) Int16(v int16) *AEMBuilder {
	return b.Uint16(uint16(v))
}

func (b *AEMBuilder) Int32(v int32) *AEMBuilder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(v))
	return b
}

func (b *AEMBuilder) Raw(p ...byte) *AEMBuilder {
	b.buf = append(b.buf, p...)
	return b
}

// Author writes the length-prefixed author name.
func (b *AEMBuilder) Author(s string) *AEMBuilder {
	return b.Uint16(uint16(len(s))).Raw([]byte(s)...)
}

// Access writes the four team-access flags.
func (b *AEMBuilder) Access(flags ...bool) *AEMBuilder {
	var raw [models.TeamCount]byte
	for i := 0; i < len(flags) && i < len(raw); i++ {
		if flags[i] {
			raw[i] = 1
		}
	}
	return b.Raw(raw[:]...)
}

// Dims writes width and height.
func (b *AEMBuilder) Dims(width, height int32) *AEMBuilder {
	return b.Int32(width).Int32(height)
}

// Columns writes tile values in file order (column-major).
func (b *AEMBuilder) Columns(tiles ...int16) *AEMBuilder {
	for _, t := range tiles {
		b.Int16(t)
	}
	return b
}

// Units writes the unit count followed by the records.
func (b *AEMBuilder) Units(units ...models.UnitPlacement) *AEMBuilder {
	b.Int32(int32(len(units)))
	for _, u := range units {
		b.Int32(int32(u.Team)).Int32(int32(u.Type)).Int32(int32(u.X)).Int32(int32(u.Y))
	}
	return b
}

// Bytes returns a copy of the bytes written so far.
func (b *AEMBuilder) Bytes() []byte {
	return append([]byte(nil), b.buf...)
}

// SampleMap is a 3x2 map with mixed terrain and two units, one of them a
// leader standing on a castle.
func SampleMap() *models.MapFile {
	return &models.MapFile{
		Author:     "tester",
		TeamAccess: [models.TeamCount]bool{true, true, false, false},
		Width:      3,
		Height:     2,
		Tiles: [][]int16{
			{37, 0, 5},
			{9, 1, 28},
		},
		Units: []models.UnitPlacement{
			{Team: 0, Type: 9, X: 0, Y: 0},
			{Team: 1, Type: 0, X: 2, Y: 1},
		},
	}
}
