// Package config provides XML-based configuration for the asset converter.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"AssetConverter"`

	// Legacy asset locations
	Input InputConfig `xml:"Input"`

	// Converted asset destination
	Output OutputConfig `xml:"Output"`

	// Batch processing
	Processing ProcessingConfig `xml:"Processing"`

	// Index remap tables
	Remap RemapConfig `xml:"Remap"`

	// Sprite sheet slicing
	Sprites SpritesConfig `xml:"Sprites"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// InputConfig locates the legacy game data
type InputConfig struct {
	MapDirectories string `xml:"MapDirectories"` // comma separated
	MapExtension   string `xml:"MapExtension"`
	TileDirectory  string `xml:"TileDirectory"`
	UnitDirectory  string `xml:"UnitDirectory"`
}

// OutputConfig contains converted file settings
type OutputConfig struct {
	Directory   string `xml:"Directory"`
	Format      string `xml:"Format"` // json or msgpack
	JSONIndent  int    `xml:"JSONIndent"`
	MapListFile string `xml:"MapListFile"`
	ReportFile  string `xml:"ReportFile"`
	TilesFile   string `xml:"TilesFile"`
	UnitsFile   string `xml:"UnitsFile"`
}

// ProcessingConfig contains batch settings
type ProcessingConfig struct {
	MaxConcurrentDecodes int  `xml:"MaxConcurrentDecodes"`
	ContinueOnError      bool `xml:"ContinueOnError"`
}

// RemapConfig points at an external remap table; empty uses the built-in one
type RemapConfig struct {
	TablesFile string `xml:"TablesFile"`
}

// SpritesConfig contains sprite slicing settings
type SpritesConfig struct {
	TileWidth  int    `xml:"TileWidth"`
	TileHeight int    `xml:"TileHeight"`
	Scale      int    `xml:"Scale"`
	SkipEmpty  bool   `xml:"SkipEmpty"`
	OutputDir  string `xml:"OutputDirectory"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel        string `xml:"LogLevel"`
	VerboseProgress bool   `xml:"VerboseProgress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Input: InputConfig{
			MapDirectories: "./assets/map,./assets/map/campaign",
			MapExtension:   ".aem",
			TileDirectory:  "./data/tiles",
			UnitDirectory:  "./data/units",
		},
		Output: OutputConfig{
			Directory:   "./public/maps",
			Format:      "json",
			JSONIndent:  2,
			MapListFile: "map_list.json",
			ReportFile:  "conversion_report.json",
			TilesFile:   "tiles.json",
			UnitsFile:   "units.json",
		},
		Processing: ProcessingConfig{
			MaxConcurrentDecodes: 4,
			ContinueOnError:      true,
		},
		Remap: RemapConfig{
			TablesFile: "",
		},
		Sprites: SpritesConfig{
			TileWidth:  24,
			TileHeight: 24,
			Scale:      1,
			SkipEmpty:  true,
			OutputDir:  "./public/sprites",
		},
		Advanced: AdvancedConfig{
			LogLevel:        "info",
			VerboseProgress: false,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		if err := config.Validate(); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Asset Converter Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the converter cannot run with
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "json", "msgpack":
	default:
		return fmt.Errorf("invalid Output.Format %q: want json or msgpack", c.Output.Format)
	}
	if c.Processing.MaxConcurrentDecodes < 1 {
		return fmt.Errorf("invalid Processing.MaxConcurrentDecodes %d: must be at least 1", c.Processing.MaxConcurrentDecodes)
	}
	if c.Sprites.TileWidth <= 0 || c.Sprites.TileHeight <= 0 {
		return fmt.Errorf("invalid sprite tile size %dx%d", c.Sprites.TileWidth, c.Sprites.TileHeight)
	}
	if c.Sprites.Scale < 1 {
		return fmt.Errorf("invalid Sprites.Scale %d: must be at least 1", c.Sprites.Scale)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if dirs := os.Getenv("AEMCONV_INPUT_DIR"); dirs != "" {
		c.Input.MapDirectories = dirs
	}

	if out := os.Getenv("AEMCONV_OUTPUT_DIR"); out != "" {
		c.Output.Directory = out
	}

	if workers := os.Getenv("AEMCONV_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			c.Processing.MaxConcurrentDecodes = n
		}
	}
}

func resolve(configDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(configDir, p)
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	dirs := c.MapDirs()
	for i := range dirs {
		dirs[i] = resolve(configDir, dirs[i])
	}
	c.Input.MapDirectories = strings.Join(dirs, ",")
	c.Input.TileDirectory = resolve(configDir, c.Input.TileDirectory)
	c.Input.UnitDirectory = resolve(configDir, c.Input.UnitDirectory)
	c.Output.Directory = resolve(configDir, c.Output.Directory)
	c.Remap.TablesFile = resolve(configDir, c.Remap.TablesFile)
	c.Sprites.OutputDir = resolve(configDir, c.Sprites.OutputDir)
}

// MapDirs returns the configured map directories
func (c *AppConfig) MapDirs() []string {
	var dirs []string
	for _, d := range strings.Split(c.Input.MapDirectories, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// JSONIndent returns the indent string for JSON output
func (c *AppConfig) JSONIndent() string {
	if c.Output.JSONIndent <= 0 {
		return ""
	}
	return strings.Repeat(" ", c.Output.JSONIndent)
}

// EnsureDirectories creates all necessary output directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Output.Directory,
		c.Sprites.OutputDir,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
