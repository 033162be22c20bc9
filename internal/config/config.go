// Package config loads the todo configuration from config.yaml, the
// environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maloquacious/todo/internal/store"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TODO_DATA_DIR.
	EnvPrefix = "TODO"

	// DefaultConfigDir is relative to the working directory.
	DefaultConfigDir = ".todo"

	KeyDataDir   = "data_dir"
	KeyDBFile    = "db_file"
	KeyUserName  = "user_name"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// Config holds the resolved settings.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	DBFile    string `yaml:"db_file"`
	UserName  string `yaml:"user_name,omitempty"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		DataDir:   store.DefaultDataDir,
		DBFile:    store.DefaultDBFile,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads config.yaml from configDir, applying TODO_* environment
// overrides on top. A missing config file is not an error.
func Load(configDir string) (Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir
	}

	def := Defaults()
	v := viper.New()
	v.SetDefault(KeyDataDir, def.DataDir)
	v.SetDefault(KeyDBFile, def.DBFile)
	v.SetDefault(KeyUserName, def.UserName)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		DataDir:   v.GetString(KeyDataDir),
		DBFile:    v.GetString(KeyDBFile),
		UserName:  v.GetString(KeyUserName),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
	}, nil
}

// Path returns the config file path inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}

// WriteIfMissing creates config.yaml with cfg if the file does not exist.
// An existing file is left untouched.
func WriteIfMissing(configDir string, cfg Config) (bool, error) {
	path := Path(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
