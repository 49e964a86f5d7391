// Package config resolves questionnaire settings. QN_ environment variables
// override ~/.questionnaire/config.toml, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyHistoryPath = "history.path"
	KeyLogLevel    = "log.level"
	KeyLogDir      = "log.dir"
	KeySessionTick = "session.tick"
	KeySessionSide = "session.side"
)

const (
	configName  = "config"
	configType  = "toml"
	configDir   = ".questionnaire"
	historyFile = "history.json"
	envPrefix   = "QN"
)

// Dir is the directory holding config.toml and the saved history.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir), nil
}

// Load prepares cfg. When file is empty, config.toml is looked up in Dir and a
// missing file is not an error.
func Load(cfg *viper.Viper, file string) error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyHistoryPath, filepath.Join(dir, historyFile))
	cfg.SetDefault(KeyLogLevel, "INFO")
	cfg.SetDefault(KeyLogDir, "")
	cfg.SetDefault(KeySessionTick, "100ms")
	cfg.SetDefault(KeySessionSide, "left")

	if file != "" {
		cfg.SetConfigFile(file)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// NormalizePath makes path absolute and expands a leading ~/.
func NormalizePath(path string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, rest)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return filepath.Clean(absPath), nil
}
