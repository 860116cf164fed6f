// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks an invalid or incomplete configuration.
// It is always reported before any source is fetched.
var ErrConfiguration = errors.New("configuration error")

// StoreKind names a prompt store backend.
type StoreKind string

const (
	StoreSupabase StoreKind = "supabase"
	StorePostgres StoreKind = "postgres"
	StoreBadger   StoreKind = "badger"
)

// Environment variables read by Load.
const (
	EnvSupabaseURL    = "SUPABASE_URL"
	EnvSupabaseKey    = "SUPABASE_SERVICE_KEY"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvStore          = "PROMPTHARVEST_STORE"
	EnvBadgerPath     = "PROMPTHARVEST_BADGER_PATH"
	EnvSources        = "PROMPTHARVEST_SOURCES"
	EnvChunkSize      = "PROMPTHARVEST_CHUNK_SIZE"
	EnvTimeout        = "PROMPTHARVEST_TIMEOUT"
	EnvPushgatewayURL = "PROMPTHARVEST_PUSHGATEWAY_URL"
)

// Config holds everything a harvest run needs.
type Config struct {
	// Store selects the backend. Default: supabase
	Store StoreKind `yaml:"store" validate:"oneof=supabase postgres badger"`

	// SupabaseURL and SupabaseKey are required for the supabase store.
	// The key must be a service key; anonymous keys cannot upsert.
	SupabaseURL string `yaml:"supabase_url" validate:"required_if=Store supabase"`
	SupabaseKey string `yaml:"supabase_key" validate:"required_if=Store supabase"`

	// DatabaseURL is a PostgreSQL DSN, required for the postgres store.
	DatabaseURL string `yaml:"database_url" validate:"required_if=Store postgres"`

	// AutoMigrate creates the prompts table on the postgres store if missing.
	AutoMigrate bool `yaml:"auto_migrate"`

	// BadgerPath is the database directory, required for the badger store.
	BadgerPath string `yaml:"badger_path" validate:"required_if=Store badger"`

	// Table is the destination table. Default: prompts
	Table string `yaml:"table" validate:"required"`

	// Sources restricts the run to the named adapters. Empty means all.
	Sources []string `yaml:"sources"`

	// ChunkSize is the number of rows per upsert call. Default: 500
	ChunkSize int `yaml:"chunk_size" validate:"min=1"`

	// Timeout bounds each source request. Default: 20s
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent overrides the default User-Agent sent to API sources.
	UserAgent string `yaml:"user_agent"`

	// PushgatewayURL enables pushing run metrics when set.
	PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,url"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithStore selects the store backend.
func WithStore(kind StoreKind) Option {
	return func(c *Config) {
		c.Store = kind
	}
}

// WithSupabase sets the Supabase project URL and service key.
func WithSupabase(url, key string) Option {
	return func(c *Config) {
		c.SupabaseURL = url
		c.SupabaseKey = key
	}
}

// WithDatabaseURL sets the PostgreSQL DSN.
func WithDatabaseURL(dsn string) Option {
	return func(c *Config) {
		c.DatabaseURL = dsn
	}
}

// WithBadgerPath sets the Badger database directory.
func WithBadgerPath(path string) Option {
	return func(c *Config) {
		c.BadgerPath = path
	}
}

// WithSources restricts the run to the named adapters.
func WithSources(names ...string) Option {
	return func(c *Config) {
		c.Sources = names
	}
}

// WithChunkSize sets the upsert chunk size.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		c.ChunkSize = size
	}
}

// WithTimeout sets the per-request source timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithPushgatewayURL enables pushing metrics to a Pushgateway.
func WithPushgatewayURL(url string) Option {
	return func(c *Config) {
		c.PushgatewayURL = url
	}
}

// DefaultConfig returns a Config targeting Supabase with default tuning.
// Credentials are left empty.
func DefaultConfig() *Config {
	return &Config{
		Store:     StoreSupabase,
		Table:     "prompts",
		ChunkSize: 500,
		Timeout:   20 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load builds a Config from defaults, then the YAML file at path when path is
// non-empty, then the environment, and validates the result.
// Every failure wraps ErrConfiguration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c.
// Keys absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrConfiguration, path, err)
	}
	return nil
}

// ApplyEnv overlays variables found by lookup onto c.
// Unset variables leave the current value alone.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvSupabaseURL, &c.SupabaseURL)
	str(EnvSupabaseKey, &c.SupabaseKey)
	str(EnvDatabaseURL, &c.DatabaseURL)
	str(EnvBadgerPath, &c.BadgerPath)
	str(EnvPushgatewayURL, &c.PushgatewayURL)

	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store = StoreKind(strings.ToLower(v))
	}
	if v, ok := lookup(EnvSources); ok && v != "" {
		c.Sources = splitList(v)
	}
	if v, ok := lookup(EnvChunkSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfiguration, EnvChunkSize, err)
		}
		c.ChunkSize = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfiguration, EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration is complete for the selected store.
func (c *Config) Validate() error {
	c.Normalize()

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				msgs[i] = describe(fe)
			}
			return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrConfiguration)
	}
	return nil
}

// Normalize trims whitespace, lower-cases the store kind and drops empty
// source names.
func (c *Config) Normalize() {
	c.Store = StoreKind(strings.ToLower(strings.TrimSpace(string(c.Store))))
	c.SupabaseURL = strings.TrimRight(strings.TrimSpace(c.SupabaseURL), "/")
	c.SupabaseKey = strings.TrimSpace(c.SupabaseKey)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.Table = strings.TrimSpace(c.Table)

	sources := c.Sources[:0:0]
	for _, s := range c.Sources {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	c.Sources = sources
}

var fieldNames = map[string]string{
	"Store":          "store",
	"SupabaseURL":    EnvSupabaseURL,
	"SupabaseKey":    EnvSupabaseKey,
	"DatabaseURL":    EnvDatabaseURL,
	"BadgerPath":     EnvBadgerPath,
	"Table":          "table",
	"ChunkSize":      "chunk_size",
	"PushgatewayURL": EnvPushgatewayURL,
}

func describe(fe validator.FieldError) string {
	name, ok := fieldNames[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required", "required_if":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", name, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "url":
		return name + " must be a URL"
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
