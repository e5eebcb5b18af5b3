// Package config handles input from etc/main.toml, environment variables and an optional .env file.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variables overriding single keys, e.g. USERMGMT_WEBSERVER_PORT.
	EnvPrefix = "USERMGMT"

	// EnvConfigJSON names the environment variable holding a JSON document merged over the whole config.
	EnvConfigJSON = "USERMGMT_CONFIG_JSON"

	// DefaultPath is used when no config directory was given.
	DefaultPath = "./etc/"

	configName = "main"
	configType = "toml"
	dotEnvFile = ".env"

	defaultShutDownTime = 5
)

// ReadConfig from config directory.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	if path == "" {
		path = DefaultPath
	}

	// .env is optional; variables already set in the environment win
	if _, statErr := os.Stat(filepath.Join(path, dotEnvFile)); statErr == nil {
		if err = godotenv.Load(filepath.Join(path, dotEnvFile)); err != nil {
			return Config{}, errors.Wrap(err, "failed to read .env file")
		}
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(EnvConfigJSON); configAsJSON != "" {
		c, err = decodeAndMergeConfig(c, configAsJSON)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	if err := enc.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineSQLite
	}

	switch c.DB.GormEngine {
	case EngineSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrEmptySQLitePath, invalidErrMessage)
		}
	case EngineMySQL, EnginePostgres:
	default:
		return errors.Wrapf(ErrUnsupportedEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	return nil
}
