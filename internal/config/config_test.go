package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "txt2bin.yaml")
	content := `
input: prog.txt
output: prog.x
skip_blank: true
dump:
  format: ihex
  base: 0x10000000
logging:
  level: debug
  path: logs/txt2bin.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Input != "prog.txt" || cfg.Output != "prog.x" {
		t.Errorf("paths = %q, %q", cfg.Input, cfg.Output)
	}
	if !cfg.SkipBlank {
		t.Error("SkipBlank = false, want true")
	}
	if cfg.Dump.Format != "ihex" {
		t.Errorf("Dump.Format = %q, want ihex", cfg.Dump.Format)
	}
	if cfg.Dump.Base == nil || *cfg.Dump.Base != 0x10000000 {
		t.Errorf("Dump.Base = %v, want 0x10000000", cfg.Dump.Base)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Path != "logs/txt2bin.log" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txt2bin.yaml")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() optional file: unexpected error: %v", err)
	}
	if cfg.Input != "" {
		t.Errorf("Input = %q, want empty", cfg.Input)
	}

	if _, err := Load(path, true); err == nil {
		t.Error("Load() required file: expected error, got nil")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txt2bin.yaml")
	if err := os.WriteFile(path, []byte("input: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path, true)
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Input != "mytest.txt" || cfg.Output != "mytest.x" {
		t.Errorf("paths = %q, %q", cfg.Input, cfg.Output)
	}
	if cfg.Dump.Format != "words" {
		t.Errorf("Dump.Format = %q", cfg.Dump.Format)
	}
	if cfg.Dump.Base == nil || *cfg.Dump.Base != 0x00400000 {
		t.Errorf("Dump.Base = %v", cfg.Dump.Base)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}

	zero := uint32(0)
	cfg = &Config{Input: "a.txt", Dump: DumpConfig{Base: &zero}}
	ApplyDefaults(cfg)
	if cfg.Input != "a.txt" {
		t.Errorf("Input overwritten: %q", cfg.Input)
	}
	if *cfg.Dump.Base != 0 {
		t.Errorf("explicit zero base overwritten: 0x%x", *cfg.Dump.Base)
	}
}

func TestValidate(t *testing.T) {
	unaligned := uint32(0x00400002)

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError string
	}{
		{
			name:      "defaults",
			mutate:    func(*Config) {},
			wantError: "",
		},
		{
			name:      "same input and output",
			mutate:    func(c *Config) { c.Output = "./mytest.txt" },
			wantError: "input and output must be different files",
		},
		{
			name:      "unknown dump format",
			mutate:    func(c *Config) { c.Dump.Format = "srec" },
			wantError: "invalid dump format: srec",
		},
		{
			name:      "unaligned base",
			mutate:    func(c *Config) { c.Dump.Base = &unaligned },
			wantError: "not word aligned",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: "invalid logging level: verbose",
		},
		{
			name:      "upper case level",
			mutate:    func(c *Config) { c.Logging.Level = "DEBUG" },
			wantError: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			ApplyDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantError != "" {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantError)
				} else if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("Validate() error = %v, want substring %q", err, tt.wantError)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
