package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory
// when no explicit path is given.
const DefaultFile = "txt2bin.yaml"

const (
	DefaultInput      = "mytest.txt"
	DefaultOutput     = "mytest.x"
	DefaultDumpFormat = "words"
	DefaultDumpBase   = uint32(0x00400000)
	DefaultLogLevel   = "warn"
)

// Config represents the configuration parsed from txt2bin.yaml.
// Positional arguments and flags on the command line take precedence over it.
type Config struct {
	// Input is the path of the text file of hex literals.
	Input string `yaml:"input"`

	// Output is the path of the binary word file to create or truncate.
	Output string `yaml:"output"`

	// SkipBlank ignores blank input lines instead of failing on them.
	SkipBlank bool `yaml:"skip_blank"`

	// Dump contains defaults for the dump command.
	Dump DumpConfig `yaml:"dump"`

	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// DumpConfig configures the dump command.
type DumpConfig struct {
	// Format is the rendering (hex, words, ihex).
	Format string `yaml:"format"`

	// Base is the load address of the first word. Nil means the text segment base.
	Base *uint32 `yaml:"base"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Path is the log file path. Empty means stderr.
	Path string `yaml:"path"`
}

// validDumpFormats is the set of allowed dump formats.
var validDumpFormats = map[string]bool{
	"hex":   true,
	"words": true,
	"ihex":  true,
}

// Load reads and parses the configuration file at path.
//
// Parameters:
//   - path: The YAML file to read.
//   - required: If false, a missing file yields an empty Config instead of an error.
//
// Returns:
//   - *Config: The parsed configuration, without defaults applied.
//   - error: An error if the file cannot be read or parsed.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyDefaults sets default values for configuration fields that are missing.
func ApplyDefaults(config *Config) {
	if config.Input == "" {
		config.Input = DefaultInput
	}
	if config.Output == "" {
		config.Output = DefaultOutput
	}
	if config.Dump.Format == "" {
		config.Dump.Format = DefaultDumpFormat
	}
	if config.Dump.Base == nil {
		b := DefaultDumpBase
		config.Dump.Base = &b
	}
	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
}

// Validate checks the configuration for errors.
//
// Parameters:
//   - config: The Config object to validate, normally after ApplyDefaults.
//
// Returns:
//   - error: An error if the configuration is invalid, or nil otherwise.
func Validate(config *Config) error {
	if config.Input == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	if config.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	// Aliases through other spellings or links are caught when the files are opened.
	if filepath.Clean(config.Input) == filepath.Clean(config.Output) {
		return fmt.Errorf("input and output must be different files: %s", config.Input)
	}

	if config.Dump.Format != "" && !validDumpFormats[strings.ToLower(config.Dump.Format)] {
		return fmt.Errorf("invalid dump format: %s (allowed: hex, words, ihex)", config.Dump.Format)
	}
	if config.Dump.Base != nil && *config.Dump.Base%4 != 0 {
		return fmt.Errorf("dump base 0x%08x is not word aligned", *config.Dump.Base)
	}

	if config.Logging.Level != "" {
		switch strings.ToLower(config.Logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", config.Logging.Level)
		}
	}

	return nil
}
