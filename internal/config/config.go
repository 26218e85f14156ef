// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads and persists the Snelldock configuration file. Values
// flow through viper so flags and SNELLDOCK_* environment variables override
// the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"
)

// Config mirrors the on-disk snelldock.yaml layout.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	WorkDir  string `mapstructure:"workdir" yaml:"workdir"`
	Engine   struct {
		Binary string `mapstructure:"binary" yaml:"binary"`
	} `mapstructure:"engine" yaml:"engine"`
	Snell struct {
		Version      string `mapstructure:"version" yaml:"version"`
		DownloadBase string `mapstructure:"download_base" yaml:"download_base"`
	} `mapstructure:"snell" yaml:"snell"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":       "sqlite",
		"database.dsn":        "./snelldock.db",
		"language":            "en",
		"workdir":             "./snelldock",
		"engine.binary":       "docker",
		"snell.version":       "5.0.0",
		"snell.download_base": "",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Snelldock")
		default:
			configDir = "/etc/snelldock"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "snelldock")
	}

	return filepath.Join(configDir, "snelldock.yaml"), nil
}

// Load wires defaults, the config file, and the environment into the global
// viper instance. An explicit cfgFile (from --config) takes precedence over
// the search paths. A missing file is not an error.
func Load(cfgFile string) error {
	for key, value := range Defaults() {
		viper.SetDefault(key, value)
	}

	viper.SetConfigName("snelldock")
	viper.SetConfigType("yaml")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if userPath, err := GetConfigPath(false); err == nil {
			viper.AddConfigPath(filepath.Dir(userPath))
		}
		if systemPath, err := GetConfigPath(true); err == nil {
			viper.AddConfigPath(filepath.Dir(systemPath))
		}
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.AllowEmptyEnv(true)
	viper.SetEnvPrefix("snelldock")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// FromViper snapshots the effective configuration.
func FromViper() Config {
	var c Config
	c.Database.Type = viper.GetString("database.type")
	c.Database.Dsn = viper.GetString("database.dsn")
	c.Language = viper.GetString("language")
	c.WorkDir = viper.GetString("workdir")
	c.Engine.Binary = viper.GetString("engine.binary")
	c.Snell.Version = viper.GetString("snell.version")
	c.Snell.DownloadBase = viper.GetString("snell.download_base")
	return c
}

// WriteConfigFile marshals c to the user or system config path, creating the
// directory when necessary.
func WriteConfigFile(c *Config, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file can carry database credentials.
	return os.WriteFile(path, data, 0o600)
}

// Save persists the current effective configuration to the user config path.
func Save() error {
	c := FromViper()
	return WriteConfigFile(&c, false)
}
