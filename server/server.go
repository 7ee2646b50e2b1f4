// Package server exposes the search dispatcher over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/search"
)

// Config holds the settings the HTTP surface needs.
type Config struct {
	Address   string
	Heartbeat time.Duration
	// RateLimit is the number of requests per minute allowed for one caller, 0 disables limiting.
	RateLimit    int
	AuthRequired bool
	Secret       string
}

// FromConfig reads the server section of the configuration.
// The token secret falls back to the system keyring.
func FromConfig() (Config, error) {
	cfg := Config{
		Address:      viper.GetString(key.ServerAddress),
		Heartbeat:    time.Duration(viper.GetInt(key.ServerHeartbeat)) * time.Second,
		RateLimit:    viper.GetInt(key.ServerRateLimit),
		AuthRequired: viper.GetBool(key.AuthRequired),
	}

	secret, err := auth.Secret()
	switch {
	case err == nil:
		cfg.Secret = secret
	case errors.Is(err, auth.ErrNoSecret) && !cfg.AuthRequired:
		log.Warn("no token secret configured, every caller is anonymous")
	default:
		return Config{}, err
	}

	return cfg, nil
}

// Server is the fiber application plus the lifetime of the sessions it started.
type Server struct {
	app        *fiber.App
	config     Config
	catalogue  provider.Catalogue
	dispatcher *search.Dispatcher

	// ctx outlives individual requests: streamed sessions keep running after the handler returns.
	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config, catalogue provider.Catalogue, dispatcher *search.Dispatcher) *Server {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 15 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               constant.Tansaku + " " + constant.Version,
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
		config:     cfg,
		catalogue:  catalogue,
		dispatcher: dispatcher,
		ctx:        ctx,
		cancel:     cancel,
	}

	routes(s)
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured address until Shutdown is called.
func (s *Server) Listen() error {
	log.Infof("listening on %s", s.config.Address)
	return s.app.Listen(s.config.Address)
}

// Shutdown cancels running sessions and stops accepting connections.
func (s *Server) Shutdown() error {
	s.cancel()
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// errorHandler renders every error as {"error": message}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var (
		fiberErr      *fiber.Error
		validationErr *search.ValidationError
	)
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	default:
		log.WithFields(log.Fields{"path": c.Path()}).Error(err)
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
