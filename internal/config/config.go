// Package config loads the gliffydb configuration file.
//
// The file lives at $XDG_CONFIG_HOME/gliffydb/config.toml (falling back to
// ~/.config/gliffydb/config.toml). A missing file is not an error: every
// setting has a default. Environment variables override the file:
//
//	GLIFFYDB_SINK         sink kind (file, afs, redis, mongo, null)
//	GLIFFYDB_OUTPUT_DIR   file sink directory
//	GLIFFYDB_SINK_URL     afs sink base URL
//	GLIFFYDB_REDIS_ADDR   redis address for the sink and the cache
//	GLIFFYDB_MONGO_URI    mongo connection URI
//	GLIFFYDB_ADDR         HTTP listen address
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/sink"
	"github.com/matzehuels/gliffydb/pkg/tables"
)

// AppName names the config and cache directories.
const AppName = "gliffydb"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config is the full configuration.
type Config struct {
	Document DocumentConfig `toml:"document"`
	// Tables overrides the default table diagram style.
	Tables tables.Style `toml:"tables"`
	Sink   sink.Config  `toml:"sink"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// DocumentConfig sets defaults for every built document.
type DocumentConfig struct {
	Title      string `toml:"title"`
	Background string `toml:"background"`
	Indent     string `toml:"indent"`
}

// CacheConfig selects the document cache. With RedisAddr set the cache is
// shared through redis; otherwise it lives in Dir on disk.
type CacheConfig struct {
	Disabled  bool   `toml:"disabled"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures "gliffydb serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultAddr is the default HTTP listen address.
const DefaultAddr = "127.0.0.1:8080"

// Default returns the configuration used without a config file.
func Default() Config {
	return Config{
		Sink:   sink.Config{Kind: sink.KindFile, Dir: "."},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// TableStyle returns the default style with the configured overrides.
func (c Config) TableStyle() tables.Style {
	return tables.DefaultStyle().Merge(c.Tables)
}

// Dir returns the config directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// CacheDir returns the cache directory (~/.cache/gliffydb by default).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config at path over the defaults and applies environment
// overrides. An empty path means the default location; a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			cfg.ApplyEnv(os.Getenv)
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	default:
		for _, key := range md.Undecoded() {
			if !inStyleMap(key) {
				return Config{}, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown key %q", path, key.String())
			}
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// inStyleMap reports whether key lies inside one of the free-form property
// maps of the table style, which TOML reports as undecoded.
func inStyleMap(key toml.Key) bool {
	if len(key) < 3 || key[0] != "tables" {
		return false
	}
	switch key[1] {
	case "container", "line":
		return true
	case "header", "column":
		return len(key) >= 4 && (key[2] == "shape" || key[2] == "text")
	}
	return false
}

// ApplyEnv applies the GLIFFYDB_* overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Sink.Kind, "GLIFFYDB_SINK")
	set(&c.Sink.Dir, "GLIFFYDB_OUTPUT_DIR")
	set(&c.Sink.URL, "GLIFFYDB_SINK_URL")
	set(&c.Sink.RedisAddr, "GLIFFYDB_REDIS_ADDR")
	set(&c.Cache.RedisAddr, "GLIFFYDB_REDIS_ADDR")
	set(&c.Sink.MongoURI, "GLIFFYDB_MONGO_URI")
	set(&c.Server.Addr, "GLIFFYDB_ADDR")
}

// Validate checks the values a decoder cannot.
func (c Config) Validate() error {
	if c.Document.Title != "" {
		if err := errors.ValidateTitle(c.Document.Title); err != nil {
			return err
		}
	}
	return c.TableStyle().Validate()
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
