package httpserver

import (
	"context"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

type Server struct {
	app *fiber.App
}

var log = logger.GetLogger()

func NewServer() *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New())

	// request logging
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	return &Server{app: app}
}

// Router is where modules mount their routes
func (s *Server) Router() fiber.Router {
	return s.app
}

// App exposes the fiber app, mainly for app.Test in tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving addr until Shutdown is called
func (s *Server) Start(addr string) error {
	log.Info("HTTP server started", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server...")
	return s.app.ShutdownWithContext(ctx)
}
