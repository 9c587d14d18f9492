// Package dsn builds the data source names of the supported database engines.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/NiceSpeak/nicespeak-admin/internal/config"
)

// Create builds the gorm Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	db := cfg.DB

	switch db.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
		)

		if db.Extras != "" {
			out += " " + db.Extras
		}

		return out
	case config.EngineSQLite:
		if db.Extras == "" {
			return db.Name
		}

		return "file:" + db.Name + "?" + db.Extras
	default:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
			db.User,
			db.Password,
			net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			db.Name,
			db.Extras,
		)
	}
}

// URI builds a postgres:// connection URI. Extras in key=value form become query parameters.
func URI(cfg *config.Config) string {
	db := cfg.DB

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   "/" + db.Name,
	}

	q := url.Values{}

	for _, kv := range strings.Fields(db.Extras) {
		if k, v, ok := strings.Cut(kv, "="); ok {
			q.Set(k, v)
		}
	}

	u.RawQuery = q.Encode()

	return u.String()
}
