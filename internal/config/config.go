package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. SPECSPLIT_VALIDATE=kin.
const envPrefix = "SPECSPLIT_"

// Config is the main configuration struct.
// Tags is the set of tag names that routes a declaration or a path entry to
// the extracted document.
// Source is the input document; Remaining and Extracted are the output
// paths. An empty Remaining means the source file is rewritten in place; an
// empty Extracted derives a `<source>.extracted.<ext>` path.
// Validate selects the output validation provider: none, kin or libopenapi.
type Config struct {
	Tags      []string `koanf:"tags" yaml:"tags"`
	Source    string   `koanf:"source" yaml:"source"`
	Remaining string   `koanf:"remaining" yaml:"remaining"`
	Extracted string   `koanf:"extracted" yaml:"extracted"`
	Validate  string   `koanf:"validate" yaml:"validate"`
}

// NewDefaultConfig creates a new config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Tags:     []string{"TVL", "yields"},
		Validate: "none",
	}
}

// EnsureConfigValues ensures that all config values are set.
func (c *Config) EnsureConfigValues() {
	defaultConfig := NewDefaultConfig()

	if len(c.Tags) == 0 {
		c.Tags = defaultConfig.Tags
	}

	if c.Validate == "" {
		c.Validate = defaultConfig.Validate
	}
}

// transformConfig applies transformations to the config:
// environment variables override file values.
func (c *Config) transformConfig(k *koanf.Koanf) *koanf.Koanf {
	transformed := koanf.New(".")
	for key, value := range k.All() {
		envKey := envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		finalValue := value

		if envValue, exists := os.LookupEnv(envKey); exists {
			finalValue = envValue
		}

		_ = transformed.Set(key, finalValue)
	}

	// tags may arrive only through the environment
	if envValue, exists := os.LookupEnv(envPrefix + "TAGS"); exists {
		_ = transformed.Set("tags", strings.Fields(envValue))
	}

	return transformed
}

// MustConfig creates a new config from a YAML file path.
// In case the file does not exist or has incorrect YAML,
// it returns a new default config.
func MustConfig(filePath string) *Config {
	res := NewDefaultConfig()

	k := koanf.New(".")
	provider := file.Provider(filePath)
	if err := k.Load(provider, yaml.Parser()); err != nil {
		slog.Error("error loading config. using fallback", "error", err)
		return res
	}

	cfg := res
	transformed := cfg.transformConfig(k)
	if err := transformed.Unmarshal("", cfg); err != nil {
		slog.Error("error loading config. using fallback", "error", err)
		return NewDefaultConfig()
	}
	cfg.EnsureConfigValues()

	return cfg
}

// NewConfigFromContent creates a new config from a YAML file content.
func NewConfigFromContent(content []byte) (*Config, error) {
	k := koanf.New(".")
	provider := rawbytes.Provider(content)
	if err := k.Load(provider, yaml.Parser()); err != nil {
		return nil, err
	}

	cfg := &Config{}
	transformed := cfg.transformConfig(k)
	if err := transformed.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.EnsureConfigValues()

	return cfg, nil
}
