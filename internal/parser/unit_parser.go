package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ancient-empires/assetconv/internal/models"
)

// UnitConfigFile is the name of the unit index file in a unit data directory.
const UnitConfigFile = "unit_config.json"

// decodeJSONObject decodes a JSON object keeping numbers as json.Number,
// so integer fields are written back unchanged.
func decodeJSONObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return obj, nil
}

func readJSONObject(filePath string) (map[string]any, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	obj, err := decodeJSONObject(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	return obj, nil
}

// ParseUnitConfig reads unit_config.json and returns it with its unit_count.
func ParseUnitConfig(dir string) (map[string]any, int, error) {
	config, err := readJSONObject(filepath.Join(dir, UnitConfigFile))
	if err != nil {
		return nil, 0, err
	}

	raw, ok := config["unit_count"].(json.Number)
	if !ok {
		return nil, 0, fmt.Errorf("%s: missing unit_count", UnitConfigFile)
	}
	count, err := raw.Int64()
	if err != nil || count < 0 {
		return nil, 0, fmt.Errorf("%s: invalid unit_count %q", UnitConfigFile, raw)
	}
	return config, int(count), nil
}

// LoadUnitBundle reads the unit config and every unit_<n>.json it lists.
// Each unit gets its index set, as the game does when loading.
func LoadUnitBundle(dir string) (*models.UnitBundle, error) {
	config, count, err := ParseUnitConfig(dir)
	if err != nil {
		return nil, err
	}

	bundle := &models.UnitBundle{
		Config: config,
		Units:  make([]map[string]any, 0, count),
	}
	for i := 0; i < count; i++ {
		unit, err := readJSONObject(filepath.Join(dir, fmt.Sprintf("unit_%d.json", i)))
		if err != nil {
			return nil, fmt.Errorf("reading unit %d: %w", i, err)
		}
		unit["index"] = i
		bundle.Units = append(bundle.Units, unit)
	}
	return bundle, nil
}
