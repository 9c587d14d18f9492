// Package web wires the admin API onto a fiber application.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	fiberlogger "github.com/NiceSpeak/nicespeak-admin/internal/logger/adapter/fiber"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/audit"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/customer"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/menu"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/permission"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/role"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/scenario"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/settings/categories"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/settings/parameters"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/subscription"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/admin/user"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/login"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/logout"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/profile"
	auditmiddleware "github.com/NiceSpeak/nicespeak-admin/internal/web/middleware/audit"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

const (
	// HealthPath answers load balancer health checks.
	HealthPath = "/health"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	readBufferSize = 8192
)

// ErrNilDependency is returned by New when cfg, db or the token store is nil.
var ErrNilDependency = errors.New("config, db and token store are required")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	tokens       *auth.TokenIssuer
	revoked      *session.Store
}

// services are mounted on the authenticated API router.
func services() []handler.Service {
	return []handler.Service{
		&profile.Handler,
		&menu.Handler,
		&role.Handler,
		&permission.Handler,
		&user.Handler,
		&customer.Handler,
		&scenario.Handler,
		&subscription.Handler,
		&parameters.Handler,
		&categories.Handler,
		&audit.Handler,
	}
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so the health check returns 503.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		if err := s.revoked.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close token store")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service. revoked keeps the ids of tokens revoked by logout.
func New(cfg *config.Config, db *gorm.DB, revoked *session.Store) (*Service, error) {
	if cfg == nil || db == nil || revoked == nil {
		return nil, ErrNilDependency
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, err
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: readBufferSize,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   response.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: auth.NewService(db),
		tokens:      tokens,
		revoked:     revoked,
	}
	service.alive.Store(true)

	app.Get(HealthPath, service.health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// login is registered ahead of the authenticated group
	if err = login.Handler.Init(app.Group(handler.APIPrefix), cfg, db, tokens); err != nil {
		return nil, err
	}

	api := app.Group(handler.APIPrefix,
		auth.RequireAuth(tokens, revoked),
		auditmiddleware.New(db),
	)

	if err = logout.Handler.Init(api, cfg, revoked); err != nil {
		return nil, err
	}

	for _, svc := range services() {
		if err = svc.Init(api, cfg, db, service.authService); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "draining"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
