// Package config loads the ringplace TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/ringplace/config.toml (falling back to
// ~/.config/ringplace/config.toml). Every key is optional; missing keys keep
// the values from [Default].
//
//	[defaults]
//	count = 12
//	min = 10.0
//	max = 12.0
//	formats = ["json"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
//	[presets.gazebo]
//	count = 8
//	min = 3.0
//	max = 3.5
//	offset = [120, 80]
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/ringplace/pkg/errors"
	"github.com/matzehuels/ringplace/pkg/pipeline"
	"github.com/matzehuels/ringplace/pkg/placement"
)

const appName = "ringplace"

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config is the decoded configuration file.
type Config struct {
	Defaults Defaults          `toml:"defaults"`
	Cache    Cache             `toml:"cache"`
	Store    Store             `toml:"store"`
	Server   Server            `toml:"server"`
	Presets  map[string]Preset `toml:"presets"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Defaults seed the place command and the preview.
type Defaults struct {
	Count    int      `toml:"count"`
	Min      float64  `toml:"min"`
	Max      float64  `toml:"max"`
	Strategy string   `toml:"strategy"`
	Distinct bool     `toml:"distinct"`
	Formats  []string `toml:"formats"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// Store selects the plan store backend.
type Store struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Preset is a named placement request.
type Preset struct {
	Count    int       `toml:"count"`
	Min      float64   `toml:"min"`
	Max      float64   `toml:"max"`
	Offset   []float64 `toml:"offset"`
	Distinct bool      `toml:"distinct"`
	Strategy string    `toml:"strategy"`
}

// Duration decodes TOML strings such as "36h" or "90m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Count:    12,
			Min:      10,
			Max:      12,
			Strategy: string(placement.StrategyAuto),
			Formats:  []string{pipeline.DefaultFormat},
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Store: Store{
			Backend:    BackendFile,
			Database:   appName,
			Collection: "plans",
		},
		Server:  Server{Addr: ":8080"},
		Presets: map[string]Preset{},
	}
}

// DefaultPath returns the standard location of the configuration file.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path. With an empty path the standard
// location is used, and a missing file yields [Default]. An explicit path
// must exist. Decoding and validation failures carry INVALID_CONFIG.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backends, defaults and presets.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return invalid("cache.backend %q must be file, redis or none", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return invalid("cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}
	if !slices.Contains([]string{BackendFile, BackendMongo, BackendMemory}, c.Store.Backend) {
		return invalid("store.backend %q must be file, mongo or memory", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return invalid("store.mongo_uri is required for the mongo backend")
	}
	if _, err := placement.ParseStrategy(c.Defaults.Strategy); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "defaults.strategy")
	}
	if err := pipeline.ValidateFormats(c.Defaults.Formats); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "defaults.formats")
	}
	for _, name := range c.PresetNames() {
		if err := errs.ValidateName(name); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "preset %q", name)
		}
		if _, err := c.Presets[name].Request(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "preset %q", name)
		}
	}
	return nil
}

// Preset looks up a preset by name.
func (c *Config) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, errs.New(errs.ErrCodePresetNotFound, "preset %q not found", name)
	}
	return p, nil
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Request converts the preset into a validated placement request.
func (p Preset) Request() (placement.Request, error) {
	var offset placement.Point
	switch len(p.Offset) {
	case 0:
	case 2:
		o, err := pipeline.RoundOffset(p.Offset[0], p.Offset[1])
		if err != nil {
			return placement.Request{}, err
		}
		offset = o
	default:
		return placement.Request{}, errs.New(errs.ErrCodeInvalidArgument, "offset must be [x, y], got %d values", len(p.Offset))
	}
	strategy, err := placement.ParseStrategy(p.Strategy)
	if err != nil {
		return placement.Request{}, err
	}
	req := placement.Request{
		Count:    p.Count,
		Band:     placement.Band{Min: p.Min, Max: p.Max},
		Offset:   offset,
		Distinct: p.Distinct,
		Strategy: strategy,
	}
	return req, req.Validate()
}

// CacheDir resolves the file cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// StoreDir resolves the file plan store directory.
func (c *Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plans"), nil
}

// xdgDir returns $env/ringplace, or ~/fallback/ringplace when env is unset.
func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

func invalid(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidConfig, format, args...)
}
