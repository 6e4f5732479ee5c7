// Package config layers defaults, an optional config file, DUNGEONDEPTHS_*
// environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores (save.path -> DUNGEONDEPTHS_SAVE_PATH).
const EnvPrefix = "DUNGEONDEPTHS"

// Save backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds game configuration options.
type Config struct {
	// Seed for the dungeon. Only meaningful when SeedSet is true; otherwise a
	// seed is drawn from system entropy.
	Seed    uint32
	SeedSet bool

	// Empty paths use the embedded defaults.
	ContentPath string
	ProcgenPath string

	Save       SaveConfig
	Generation GenerationConfig
	Log        LogConfig
	Telemetry  TelemetryConfig

	Dump bool // print one generated level and exit
	Load bool // resume from the save slot instead of starting fresh
}

// SaveConfig selects where saves go.
type SaveConfig struct {
	Backend string
	Path    string // directory for the file backend
	DSN     string // connection string for the postgres backend
	Slot    string
}

// GenerationConfig tunes the map generator.
type GenerationConfig struct {
	MaxAttempts int // 0 is unbounded
	Cache       bool
	CacheSize   int64
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	Enabled     bool
	SampleRatio float64
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string
	Level string
}

var flagKeys = map[string]string{
	"seed":         "seed",
	"content":      "content_path",
	"procgen":      "procgen_path",
	"save-backend": "save.backend",
	"save-path":    "save.path",
	"save-dsn":     "save.dsn",
	"slot":         "save.slot",
	"max-attempts": "generation.max_attempts",
	"cache":        "generation.cache",
	"cache-size":   "generation.cache_size",
	"log-file":     "log.file",
	"log-level":    "log.level",
	"telemetry":    "telemetry.enabled",
	"sample-ratio": "telemetry.sample_ratio",
	"dump":         "dump",
	"load":         "load",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content_path", "")
	v.SetDefault("procgen_path", "")
	v.SetDefault("save.backend", BackendFile)
	v.SetDefault("save.path", ".")
	v.SetDefault("save.dsn", "")
	v.SetDefault("save.slot", "save")
	v.SetDefault("generation.max_attempts", 0)
	v.SetDefault("generation.cache", true)
	v.SetDefault("generation.cache_size", 64)
	v.SetDefault("log.file", "dungeondepths.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("dump", false)
	v.SetDefault("load", false)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("dungeondepths", pflag.ContinueOnError)
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.Uint32("seed", 0, "master seed (default: random)")
	fs.String("content", "", "content catalog path (default: embedded)")
	fs.String("procgen", "", "procgen settings path (default: embedded)")
	fs.String("save-backend", BackendFile, "save backend: file or postgres")
	fs.String("save-path", ".", "directory for save files")
	fs.String("save-dsn", "", "PostgreSQL connection string")
	fs.String("slot", "save", "save slot name")
	fs.Int("max-attempts", 0, "cap on map generation attempts (0 = unbounded)")
	fs.Bool("cache", true, "memoise generated levels")
	fs.Int64("cache-size", 64, "levels kept in the cache")
	fs.String("log-file", "dungeondepths.log", "log file path")
	fs.String("log-level", "info", "log level")
	fs.Bool("telemetry", false, "export traces over OTLP")
	fs.Float64("sample-ratio", 1.0, "fraction of traces exported")
	fs.Bool("dump", false, "print a generated level and exit")
	fs.Bool("load", false, "resume from the save slot")
	return fs
}

// Load parses args and merges every configuration layer.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	if err := v.BindEnv("seed"); err != nil {
		return nil, err
	}

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Seed:        v.GetUint32("seed"),
		SeedSet:     v.IsSet("seed"),
		ContentPath: v.GetString("content_path"),
		ProcgenPath: v.GetString("procgen_path"),
		Save: SaveConfig{
			Backend: v.GetString("save.backend"),
			Path:    v.GetString("save.path"),
			DSN:     v.GetString("save.dsn"),
			Slot:    v.GetString("save.slot"),
		},
		Generation: GenerationConfig{
			MaxAttempts: v.GetInt("generation.max_attempts"),
			Cache:       v.GetBool("generation.cache"),
			CacheSize:   v.GetInt64("generation.cache_size"),
		},
		Log: LogConfig{
			File:  v.GetString("log.file"),
			Level: v.GetString("log.level"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     v.GetBool("telemetry.enabled"),
			SampleRatio: v.GetFloat64("telemetry.sample_ratio"),
		},
		Dump: v.GetBool("dump"),
		Load: v.GetBool("load"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can use.
func (c *Config) Validate() error {
	switch c.Save.Backend {
	case BackendFile:
	case BackendPostgres:
		if c.Save.DSN == "" {
			return fmt.Errorf("config: save.backend %q needs save.dsn", BackendPostgres)
		}
	default:
		return fmt.Errorf("config: unknown save.backend %q", c.Save.Backend)
	}
	if c.Save.Slot == "" {
		return fmt.Errorf("config: save.slot is empty")
	}
	if c.Generation.MaxAttempts < 0 {
		return fmt.Errorf("config: generation.max_attempts %d is negative", c.Generation.MaxAttempts)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("config: telemetry.sample_ratio %v is outside [0, 1]", c.Telemetry.SampleRatio)
	}
	if c.Dump && c.Load {
		return fmt.Errorf("config: --dump and --load cannot be combined")
	}
	return nil
}
