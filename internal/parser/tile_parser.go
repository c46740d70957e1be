package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ancient-empires/assetconv/internal/models"
)

// ErrMalformedTileDefinition is returned when a tile_<n>.dat token stream
// has too few tokens, too many, or a token of the wrong kind.
var ErrMalformedTileDefinition = errors.New("malformed tile definition")

// TileDefinitionError locates a tile definition failure by token position.
type TileDefinitionError struct {
	Field string
	Token int
	Err   error
}

func (e *TileDefinitionError) Error() string {
	return fmt.Sprintf("tile definition %s (token %d): %v", e.Field, e.Token, e.Err)
}

func (e *TileDefinitionError) Unwrap() error {
	return e.Err
}

// tokenStream consumes whitespace-separated tokens in order.
type tokenStream struct {
	tokens []string
	pos    int
}

func (s *tokenStream) done() bool {
	return s.pos >= len(s.tokens)
}

func (s *tokenStream) fail(field, format string, args ...any) error {
	return &TileDefinitionError{
		Field: field,
		Token: s.pos,
		Err:   fmt.Errorf("%w: %s", ErrMalformedTileDefinition, fmt.Sprintf(format, args...)),
	}
}

func (s *tokenStream) next(field string) (string, error) {
	if s.done() {
		return "", s.fail(field, "token stream ended")
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

func (s *tokenStream) nextInt(field string) (int, error) {
	tok, err := s.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		s.pos--
		return 0, s.fail(field, "expected integer, got %q", tok)
	}
	return int(v), nil
}

func (s *tokenStream) nextShort(field string) (int16, error) {
	tok, err := s.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, 16)
	if err != nil {
		s.pos--
		return 0, s.fail(field, "expected short, got %q", tok)
	}
	return int16(v), nil
}

func (s *tokenStream) nextBool(field string) (bool, error) {
	tok, err := s.next(field)
	if err != nil {
		return false, err
	}
	v, ok := parseBoolToken(tok)
	if !ok {
		s.pos--
		return false, s.fail(field, "expected true or false, got %q", tok)
	}
	return v, nil
}

func parseBoolToken(tok string) (bool, bool) {
	switch {
	case strings.EqualFold(tok, "true"):
		return true, true
	case strings.EqualFold(tok, "false"):
		return false, true
	}
	return false, false
}

// optionalShort reads a flag and, when it is true, the short that follows.
func (s *tokenStream) optionalShort(flag, field string) (*int16, error) {
	set, err := s.nextBool(flag)
	if err != nil || !set {
		return nil, err
	}
	v, err := s.nextShort(field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseTileDefinitionString parses one tile definition from its text.
func ParseTileDefinitionString(content string, index int) (*models.TileDefinition, error) {
	s := &tokenStream{tokens: strings.Fields(content)}
	t := &models.TileDefinition{Index: index}

	ints := []struct {
		field string
		dst   *int
	}{
		{"defence bonus", &t.DefenceBonus},
		{"step cost", &t.StepCost},
		{"hp recovery", &t.HPRecovery},
		{"type", &t.Type},
		{"top tile index", &t.TopTileIndex},
		{"team", &t.Team},
	}
	for _, f := range ints {
		v, err := s.nextInt(f.field)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	accessCount, err := s.nextInt("access tile count")
	if err != nil {
		return nil, err
	}
	if accessCount < 0 {
		s.pos--
		return nil, s.fail("access tile count", "negative count %d", accessCount)
	}
	if accessCount > 0 {
		t.AccessTiles = make([]int, accessCount)
		for i := range t.AccessTiles {
			if t.AccessTiles[i], err = s.nextInt("access tile list"); err != nil {
				return nil, err
			}
		}
	}

	capturable, err := s.nextBool("is capturable")
	if err != nil {
		return nil, err
	}
	if capturable {
		var captured [models.CapturedTileCount]int16
		for i := range captured {
			if captured[i], err = s.nextShort("captured tile list"); err != nil {
				return nil, err
			}
		}
		t.CapturedTiles = &captured
	}

	if t.DestroyedTile, err = s.optionalShort("is destroyable", "destroyed tile index"); err != nil {
		return nil, err
	}
	if t.RepairedTile, err = s.optionalShort("is repairable", "repaired tile index"); err != nil {
		return nil, err
	}
	if t.AnimationTile, err = s.optionalShort("is animated", "animation tile index"); err != nil {
		return nil, err
	}

	if t.MiniMapIndex, err = s.nextInt("mini map index"); err != nil {
		return nil, err
	}
	if t.IsCastle, err = s.nextBool("is castle"); err != nil {
		return nil, err
	}
	if t.IsVillage, err = s.nextBool("is village"); err != nil {
		return nil, err
	}

	// Older tile files stop after is_village.
	if !s.done() {
		if t.IsTemple, err = s.nextBool("is temple"); err != nil {
			return nil, err
		}
	}
	if !s.done() {
		return nil, s.fail("end of definition", "%d unexpected trailing tokens", len(s.tokens)-s.pos)
	}

	return t, nil
}

// ParseTileDefinition parses one tile definition from a reader.
func ParseTileDefinition(r io.Reader, index int) (*models.TileDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseTileDefinitionString(string(data), index)
}

// ParseTileDefinitionFile parses a tile_<n>.dat file.
func ParseTileDefinitionFile(filePath string, index int) (*models.TileDefinition, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseTileDefinition(file, index)
}

// ParseTileConfig reads tile_config.dat and returns the tile count,
// which is its first token.
func ParseTileConfig(filePath string) (int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%s: empty tile config", filepath.Base(filePath))
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%s: invalid tile count %q", filepath.Base(filePath), fields[0])
	}
	return count, nil
}

// TileDefinitionPath returns the conventional file name for tile index.
func TileDefinitionPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("tile_%d.dat", index))
}
