// Package config loads the CLI configuration: an optional YAML file, then a
// .env file, then CURRICULO_* environment variables. Later sources win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-curriculo/pkg/normalize"
	"github.com/goliatone/go-curriculo/pkg/visibility/expr"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CURRICULO_"

// Config holds the settings shared by the CLI commands.
type Config struct {
	OutputDir      string                 `yaml:"output_dir"`
	Addr           string                 `yaml:"addr"`
	AllowedOrigins []string               `yaml:"allowed_origins"`
	RemoteURL      string                 `yaml:"remote_url"`
	Theme          string                 `yaml:"theme"`
	ThemeVariant   string                 `yaml:"theme_variant"`
	Themes         []Theme                `yaml:"themes"`
	TemplatesDir   string                 `yaml:"templates_dir"`
	HideRules      []expr.Rule            `yaml:"hide_rules"`
	License        normalize.LicenseRules `yaml:"license"`
	Chrome         Chrome                 `yaml:"chrome"`
	Verbose        bool                   `yaml:"verbose"`
}

// Chrome configures the headless browser used for PDF export.
type Chrome struct {
	Bin        string        `yaml:"bin"`
	ControlURL string        `yaml:"control_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Theme declares design tokens for the printable page. Variant tokens
// override the theme tokens.
type Theme struct {
	Name     string                       `yaml:"name"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir: ".",
		Addr:      ":8080",
		License:   normalize.DefaultLicenseRules(),
		Chrome:    Chrome{Timeout: 60 * time.Second},
	}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	file     string
	envFiles []string
	lookup   func(string) (string, bool)
}

// WithFile reads a YAML file. A missing file named explicitly is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = strings.TrimSpace(path)
	}
}

// WithEnvFiles overrides the .env files read (default ".env"). Missing files
// are skipped.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = paths
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// Load resolves the configuration. Process environment variables take
// precedence over values read from .env files.
func Load(options ...Option) (Config, error) {
	l := loader{envFiles: []string{".env"}, lookup: os.LookupEnv}
	for _, opt := range options {
		if opt != nil {
			opt(&l)
		}
	}

	cfg := Default()
	if l.file != "" {
		raw, err := os.ReadFile(l.file)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.file, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", l.file, err)
		}
	}

	dotenv := map[string]string{}
	for _, path := range l.envFiles {
		values, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		for key, value := range values {
			if _, seen := dotenv[key]; !seen {
				dotenv[key] = value
			}
		}
	}
	lookup := func(key string) (string, bool) {
		if value, ok := l.lookup(EnvPrefix + key); ok {
			return value, true
		}
		value, ok := dotenv[EnvPrefix+key]
		return value, ok
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"OUTPUT_DIR":         &c.OutputDir,
		"ADDR":               &c.Addr,
		"REMOTE_URL":         &c.RemoteURL,
		"THEME":              &c.Theme,
		"THEME_VARIANT":      &c.ThemeVariant,
		"TEMPLATES_DIR":      &c.TemplatesDir,
		"CHROME_BIN":         &c.Chrome.Bin,
		"CHROME_CONTROL_URL": &c.Chrome.ControlURL,
	}
	for key, target := range strs {
		if value, ok := lookup(key); ok {
			*target = strings.TrimSpace(value)
		}
	}

	if value, ok := lookup("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(value)
	}
	if value, ok := lookup("LICENSE_CHARSET"); ok {
		c.License.Charset = normalize.ParseLicenseCharset(value)
	}
	if value, ok := lookup("LICENSE_MAX_LENGTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %sLICENSE_MAX_LENGTH: %w", EnvPrefix, err)
		}
		c.License.MaxLength = n
	}
	if value, ok := lookup("CHROME_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %sCHROME_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Chrome.Timeout = d
	}
	if value, ok := lookup("VERBOSE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %sVERBOSE: %w", EnvPrefix, err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate rejects settings the commands cannot use.
func (c Config) Validate() error {
	switch c.License.Charset {
	case normalize.LicenseAlphanumeric, normalize.LicenseLetters:
	case "":
		return errors.New("config: license charset is required")
	default:
		return fmt.Errorf("config: unknown license charset %q", c.License.Charset)
	}
	if c.Chrome.Timeout < 0 {
		return fmt.Errorf("config: chrome timeout must not be negative, got %s", c.Chrome.Timeout)
	}
	seen := map[string]bool{}
	for i, th := range c.Themes {
		name := strings.TrimSpace(th.Name)
		if name == "" {
			return fmt.Errorf("config: themes[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("config: duplicate theme %q", name)
		}
		seen[name] = true
	}
	if _, err := expr.Compile(c.HideRules...); err != nil {
		return fmt.Errorf("config: hide_rules: %w", err)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("config: output dir is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
