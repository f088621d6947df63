// Package config is the thinnest possible configuration provider: it
// reads a YAML file plus TDB_-prefixed environment overrides and
// exposes the handful of fields the server's core treats as its
// configuration collaborator.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultDTFFolder = "./dtf"
	defaultAddr      = "127.0.0.1:9001"
	defaultLogLevel  = "info"
)

// Config exposes the data folder, listen address, and log level a
// Session and its server process need. It never surfaces more than
// that to the core packages.
type Config struct {
	v *viper.Viper
}

// Load reads path (if it exists) plus TDB_-prefixed environment
// variables into a Config. A missing file is not an error; defaults
// apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("dtf_folder", defaultDTFFolder)
	v.SetDefault("addr", defaultAddr)
	v.SetDefault("log_level", defaultLogLevel)

	v.SetEnvPrefix("TDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("config: stat %s: %w", path, statErr)
		}
	}

	return &Config{v: v}, nil
}

// DTFFolder is the directory .dtf files live in.
func (c *Config) DTFFolder() string { return c.v.GetString("dtf_folder") }

// Addr is the TCP listen address.
func (c *Config) Addr() string { return c.v.GetString("addr") }

// LogLevel is the zap level name the logger should start at.
func (c *Config) LogLevel() string { return c.v.GetString("log_level") }

// Viper exposes the underlying *viper.Viper so cmd/tdbserver can bind
// cobra flags onto the same keys this Config reads.
func (c *Config) Viper() *viper.Viper { return c.v }
