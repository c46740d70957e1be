package parser

import (
	"io"
	"os"

	"github.com/ancient-empires/assetconv/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseRemapTables parses a YAML remap file (terrain, unit and team tables
// plus stronghold and leader definitions).
func ParseRemapTables(filePath string) (*models.RemapTables, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseRemapTablesFromReader(file)
}

// ParseRemapTablesFromReader parses remap tables from an io.Reader.
func ParseRemapTablesFromReader(r io.Reader) (*models.RemapTables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var tables models.RemapTables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, err
	}

	return &tables, nil
}
