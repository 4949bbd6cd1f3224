package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a config file extension Load cannot read.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load reads the file at path (YAML, TOML, or JSON by extension) over
// Default, applies environment overrides, and validates the result.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(cfg, filepath.Ext(path), data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in the given format ("yaml", "toml", or "json") over
// Default and validates it. The environment is not consulted.
func Parse(format string, data []byte) (*Config, error) {
	cfg := Default()
	if err := decode(cfg, "."+strings.TrimPrefix(format, "."), data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(cfg)
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ApplyEnv overlays environment variables. Unset variables leave the
// current values alone.
func (c *Config) ApplyEnv() error {
	sections := []struct {
		prefix string
		spec   any
	}{
		{"gemini", &c.Gemini},
		{"deepseek", &c.DeepSeek},
		{"openai", &c.OpenAI},
		{"llmrouter", &c.Budget},
		{"llmrouter", &c.Router},
		{"llmrouter_retry", &c.Retry},
		{"llmrouter_ledger", &c.Ledger},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.spec); err != nil {
			return fmt.Errorf("%w: environment: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// LoadEnvFiles loads KEY=value files into the process environment so a
// following Load sees them. Variables already set win. Missing files are
// skipped; no arguments loads ".env".
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
