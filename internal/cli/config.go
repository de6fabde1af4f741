package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chartpack/pkg/buildinfo"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/pipeline"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the optional config.toml. Flags override every value.
type Config struct {
	Visual  string   `toml:"visual"`
	Locale  string   `toml:"locale"`
	Palette []string `toml:"palette"`
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`

	Geocoder GeocoderConfig `toml:"geocoder"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// GeocoderConfig configures location lookups for map visuals.
type GeocoderConfig struct {
	// URL of a Nominatim-compatible endpoint. Lookups are disabled when
	// Disabled is set.
	URL       string `toml:"url"`
	UserAgent string `toml:"user_agent"`
	Disabled  bool   `toml:"disabled"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr    string   `toml:"addr"`
	Timeout duration `toml:"timeout"`
}

// duration decodes TOML strings such as "30s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() *Config {
	return &Config{
		Visual: pipeline.DefaultVisual,
		Width:  pipeline.DefaultWidth,
		Height: pipeline.DefaultHeight,
		Geocoder: GeocoderConfig{
			UserAgent: appName + "/" + buildinfo.Get().Version,
		},
		Cache: CacheConfig{Backend: backendFile},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// loadConfig reads path on top of the defaults. A missing file at the
// default location is not an error; a missing explicit path is.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == backendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Width < 0 || c.Height < 0 || c.Width > pipeline.MaxDimension || c.Height > pipeline.MaxDimension {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport %gx%g out of range", c.Width, c.Height)
	}
	return nil
}
