// Package config reads etc/main.toml and its environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. NICESPEAK_ADMIN_WEBSERVER_PORT.
	EnvPrefix = "NICESPEAK_ADMIN"

	// EnvConfigJSON holds a JSON document merged over the file config.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	defaultShutDownTime = 5
	defaultTokenExpiry  = 12 * time.Hour
	defaultIssuer       = "nicespeak-admin"
	minJWTSecretLength  = 32
)

// ReadConfig reads main.toml from path. A .env file next to the working directory is
// loaded first, then environment variables and EnvConfigJSON override file values.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to decode main config file")
	}

	if jsonConfig := os.Getenv(EnvConfigJSON); jsonConfig != "" {
		var err error
		if c, err = decodeAndMergeConfig(c, jsonConfig); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// validate fills defaults and rejects settings the service can not start with.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return pkgerrors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return pkgerrors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return pkgerrors.Wrap(ErrUnknownEngine, invalidErrMessage)
	}

	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		return pkgerrors.Wrap(ErrJWTSecretTooShort, invalidErrMessage)
	}

	if c.Auth.TokenExpiry <= 0 {
		c.Auth.TokenExpiry = defaultTokenExpiry
	}

	if c.Auth.Issuer == "" {
		c.Auth.Issuer = defaultIssuer
	}

	return nil
}
