// Package config loads fortdoc settings from fortdoc.yaml, FORTDOC_*
// environment variables and built-in defaults, and keeps SFTP passwords in
// the system keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	constants "github.com/ImGajeed76/fortdoc/internal"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/latex"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
	pathhelpers "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/helpers"
)

// FileName is the config file looked up in the working directory.
const FileName = "fortdoc.yaml"

// Config holds everything a run needs besides the manifest itself.
type Config struct {
	// OutputDir is where .tex files are written, relative paths resolved
	// against the working directory.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// CommentsFile receives the !? comment report.
	CommentsFile string `mapstructure:"comments_file" yaml:"comments_file"`
	// Encoding of source and output files (IANA name).
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	// Workers bounds how many files are processed at once.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// FailFast stops the batch at the first file that fails.
	FailFast      bool          `mapstructure:"fail_fast" yaml:"fail_fast"`
	MintedOptions string        `mapstructure:"minted_options" yaml:"minted_options"`
	Progress      bool          `mapstructure:"progress" yaml:"progress"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
	SFTP          SFTPConfig    `mapstructure:"sftp" yaml:"sftp"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// File additionally receives the log, without colors
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

// SFTPConfig holds connection defaults for sftp:// source roots.
type SFTPConfig struct {
	Port              int    `mapstructure:"port" yaml:"port"`
	KeyFile           string `mapstructure:"key_file" yaml:"key_file,omitempty"`
	ConnectTimeoutSec int    `mapstructure:"connect_timeout_sec" yaml:"connect_timeout_sec"`
	MaxRetries        int    `mapstructure:"max_retries" yaml:"max_retries"`
	KeepAliveSec      int    `mapstructure:"keep_alive_sec" yaml:"keep_alive_sec"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		OutputDir:     "doc",
		CommentsFile:  "comments.tex",
		Encoding:      "utf-8",
		Workers:       runtime.NumCPU(),
		MintedOptions: latex.DefaultMintedOptions,
		Progress:      true,
		Logging: LoggingConfig{
			Level: "info",
		},
		SFTP: SFTPConfig{
			Port:              22,
			ConnectTimeoutSec: 10,
			MaxRetries:        3,
			KeepAliveSec:      30,
		},
	}
}

// Load reads the configuration. An empty location searches for fortdoc.yaml
// in the working directory and then in the user config directory; a missing
// file is not an error. Environment variables such as FORTDOC_WORKERS or
// FORTDOC_SFTP_PORT override both.
func Load(location string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	if location != "" {
		v.SetConfigFile(expandPath(location))
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, constants.AppName))
		}
	}

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if location != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.SFTP.KeyFile = expandPath(cfg.SFTP.KeyFile)
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("comments_file", cfg.CommentsFile)
	v.SetDefault("encoding", cfg.Encoding)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("fail_fast", cfg.FailFast)
	v.SetDefault("minted_options", cfg.MintedOptions)
	v.SetDefault("progress", cfg.Progress)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("sftp.port", cfg.SFTP.Port)
	v.SetDefault("sftp.key_file", cfg.SFTP.KeyFile)
	v.SetDefault("sftp.connect_timeout_sec", cfg.SFTP.ConnectTimeoutSec)
	v.SetDefault("sftp.max_retries", cfg.SFTP.MaxRetries)
	v.SetDefault("sftp.keep_alive_sec", cfg.SFTP.KeepAliveSec)
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save(location string) error {
	location = expandPath(location)
	if err := os.MkdirAll(filepath.Dir(location), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(location, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for values a run cannot work with.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir cannot be empty")
	}
	if c.CommentsFile == "" {
		return errors.New("comments_file cannot be empty")
	}
	if _, err := pathhelpers.Encoding(c.Encoding); err != nil {
		return fmt.Errorf("unknown encoding %q: %w", c.Encoding, err)
	}
	if c.Workers < 1 || c.Workers > 256 {
		return fmt.Errorf("workers must be between 1 and 256, got %d", c.Workers)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if c.SFTP.Port < 1 || c.SFTP.Port > 65535 {
		return fmt.Errorf("sftp.port %d out of range", c.SFTP.Port)
	}
	if c.SFTP.ConnectTimeoutSec < 0 || c.SFTP.MaxRetries < 0 || c.SFTP.KeepAliveSec < 0 {
		return errors.New("sftp timeouts and retries cannot be negative")
	}
	return nil
}

// RemoteOptions turns the sftp section into options for sftp:// paths.
// lookup supplies passwords missing from the URL.
func (c *Config) RemoteOptions(lookup func(user, host string) (string, error)) path.RemoteOptions {
	return path.RemoteOptions{
		Port:           c.SFTP.Port,
		KeyFile:        c.SFTP.KeyFile,
		ConnectTimeout: time.Duration(c.SFTP.ConnectTimeoutSec) * time.Second,
		MaxRetries:     c.SFTP.MaxRetries,
		KeepAlive:      time.Duration(c.SFTP.KeepAliveSec) * time.Second,
		Credentials:    lookup,
	}
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
