// Package daemon opens the database, prepares it and runs the web service.
package daemon

import (
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dsn"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
	"github.com/NiceSpeak/nicespeak-admin/internal/logger/adapter/gormlogger"
	"github.com/NiceSpeak/nicespeak-admin/internal/web"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

// TokenTable stores the ids of revoked tokens.
const TokenTable = "revoked_tokens"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the web service and blocks until it stopped.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// New opens and prepares the database and creates the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}

	revoked := session.New(tokenStorage(cfg))

	webService, err := web.New(cfg, db, revoked)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create web service")
	}

	return &Daemon{
		cfg:        cfg,
		webService: webService,
	}, nil
}

// Prepare opens the database, migrates the schema and seeds the defaults.
func Prepare(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to migrate database")
	}

	if err = Seed(cfg, db); err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database ready")

	return db, nil
}

// Open connects to the configured engine with the zerolog gorm logger and applies the pool limits.
func Open(cfg *config.Config) (*gorm.DB, error) {
	slow, err := slowQueryThreshold(cfg.Log.SlowQueryThreshold)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger: gormlogger.New(slow),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to access connection pool")
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	return db, nil
}

func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// tokenStorage returns the storage backend of the revoked token store.
// SQLite keeps revoked tokens in memory.
func tokenStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.URI(cfg),
			Table:         TokenTable,
		})
	case config.EngineSQLite:
		log.Warn().Msg("sqlite engine: revoked tokens are kept in memory")

		return nil
	default:
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         TokenTable,
		})
	}
}

func slowQueryThreshold(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(err, fmt.Sprintf("invalid log.slowQueryThreshold %q", raw))
	}

	return d, nil
}
