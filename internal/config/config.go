// Package config resolves runtime settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/diranalyzer/internal/aggregate"
	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/export"
)

const (
	// AppName names the config file and the config directory.
	AppName = "diranalyzer"
	// EnvPrefix prefixes all environment overrides, e.g. DIRANALYZER_MIN_SIZE.
	EnvPrefix = "DIRANALYZER"
)

// Formats lists the allowed output formats.
//
//nolint:gochecknoglobals // Allowed values
var Formats = []string{"table", "json", "paths"}

// Config holds every setting that can come from flags, environment or file.
type Config struct {
	Depth       int      `mapstructure:"depth"`
	Duplicates  bool     `mapstructure:"duplicates"`
	MinSize     string   `mapstructure:"min-size"`
	All         bool     `mapstructure:"all"`
	Export      string   `mapstructure:"export"`
	Output      string   `mapstructure:"output"`
	Format      string   `mapstructure:"format"`
	Top         int      `mapstructure:"top"`
	Exclude     []string `mapstructure:"exclude"`
	IgnoreFile  string   `mapstructure:"ignore-file"`
	FollowLinks bool     `mapstructure:"follow-links"`
	Verbose     bool     `mapstructure:"verbose"`
	Quiet       bool     `mapstructure:"quiet"`
	Threads     int      `mapstructure:"threads"`
	Hash        string   `mapstructure:"hash"`
	Aggregation string   `mapstructure:"aggregation"`

	// MinSizeBytes is MinSize parsed by Validate.
	MinSizeBytes int64 `mapstructure:"-"`
	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Load merges flags, environment and config file into a Config.
// Precedence is flags, then environment, then file, then flag defaults.
// An explicit configPath must exist; the default search locations may be empty.
func Load(flags *pflag.FlagSet, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.File = v.ConfigFileUsed()

	return &cfg, nil
}

// Validate checks value ranges and parses MinSize.
func (c *Config) Validate() error {
	if c.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	if c.Top <= 0 {
		return fmt.Errorf("top must be positive, got %d", c.Top)
	}

	if c.Threads < 0 {
		return fmt.Errorf("threads cannot be negative, got %d", c.Threads)
	}

	if c.Verbose && c.Quiet {
		return errors.New("verbose and quiet are mutually exclusive")
	}

	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid output format %q: must be one of %v", c.Format, Formats)
	}

	if c.Export != "" {
		if _, err := export.ParseFormat(c.Export); err != nil {
			return err
		}
	}

	if c.Output != "" && c.Export == "" {
		return errors.New("output path given without an export format")
	}

	if _, err := duplicates.ParseAlgorithm(c.Hash); err != nil {
		return err
	}

	if _, err := aggregate.ParseStrategy(c.Aggregation); err != nil {
		return err
	}

	c.MinSizeBytes = 0

	if c.MinSize != "" {
		size, err := humanize.ParseBytes(c.MinSize)
		if err != nil {
			return fmt.Errorf("invalid min-size: %w", err)
		}

		if size > math.MaxInt64 {
			return fmt.Errorf("invalid min-size: %q exceeds %s", c.MinSize, humanize.IBytes(math.MaxInt64))
		}

		c.MinSizeBytes = int64(size)
	}

	return nil
}
