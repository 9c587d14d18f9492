package config

import (
	"time"

	"github.com/NiceSpeak/nicespeak-admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode"   toml:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title"     toml:"title"`
	DB        DB         `mapstructure:"db"        toml:"db"`
	Log       logger.Log `mapstructure:"log"       toml:"log"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver"`
	Auth      Auth       `mapstructure:"auth"      toml:"auth"`
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   `mapstructure:"disableRecover" toml:"disableRecover"` // disable recover middleware
	Port           int    `mapstructure:"port"           toml:"port"`           // listening port for the webserver
	ShutDownTime   int    `mapstructure:"shutDownTime"   toml:"shutDownTime"`   // seconds health returns 503 before shutdown
	URL            string `mapstructure:"url"            toml:"url"`            // base url for the webserver
	BodyLimit      int    `mapstructure:"bodyLimit"      toml:"bodyLimit"`      // max request body in bytes
}

// Auth holds the token and bootstrap account settings.
type Auth struct {
	// JWTSecret signs access tokens with HS256.
	JWTSecret string `mapstructure:"jwtSecret" toml:"jwtSecret"`
	// Issuer is written to and required in every token.
	Issuer string `mapstructure:"issuer" toml:"issuer"`
	// TokenExpiry is the lifetime of an access token.
	TokenExpiry time.Duration `mapstructure:"tokenExpiry" toml:"tokenExpiry"`
	// BootstrapEmail and BootstrapPassword create the first super admin when no user exists.
	BootstrapEmail    string `mapstructure:"bootstrapEmail"    toml:"bootstrapEmail"`
	BootstrapPassword string `mapstructure:"bootstrapPassword" toml:"bootstrapPassword"`
}
