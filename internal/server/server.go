// Package server hosts timeline sessions over HTTP. Each session owns one
// canvas and one engine; clients post input events and fetch the latest
// frame as SVG.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"eracanvas/internal/catalog"
	"eracanvas/internal/engine"
)

// Config configures the HTTP layer.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Logger       *slog.Logger

	// Catalog backs the read-only item and landmark routes. They are not
	// registered when it is nil.
	Catalog *catalog.Catalog
}

// Server is the fiber application bound to a session registry.
type Server struct {
	app      *fiber.App
	sessions *Registry
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// New builds the fiber application and its routes.
func New(sessions *Registry, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		sessions: sessions,
		catalog:  cfg.Catalog,
		logger:   logger.With("component", "http"),
		app: fiber.New(fiber.Config{
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			AppName:      "eracanvas",
		}),
	}

	s.app.Use(recover.New())
	s.app.Use(fiber.Handler(s.requestLogger))

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.app.Get("/health/ready", s.ready)

	api := s.app.Group("/api/v1")
	api.Post("/sessions", s.createSession)
	api.Get("/sessions/:id/frame.svg", s.frame)
	api.Get("/sessions/:id/state", s.state)
	api.Post("/sessions/:id/events", s.event)
	api.Post("/sessions/:id/zoom-in", s.zoom(true))
	api.Post("/sessions/:id/zoom-out", s.zoom(false))
	api.Delete("/sessions/:id", s.deleteSession)

	if s.catalog != nil {
		api.Get("/items", s.listItems)
		api.Get("/items/facets", s.itemFacets)
		api.Get("/items/:id", s.getItem)
		api.Get("/landmarks", s.listLandmarks)
	}

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting requests and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	return errors.Join(err, s.sessions.Close(ctx))
}

func (s *Server) requestLogger(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(c.Context(), level, "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start))
	return err
}

func (s *Server) ready(c fiber.Ctx) error {
	if !s.sessions.Ready() {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "closing"})
	}
	return c.JSON(fiber.Map{"status": "ready", "sessions": s.sessions.Len()})
}

type createRequest struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PixelRatio float64 `json:"pixelRatio"`
}

type createResponse struct {
	ID    string               `json:"id"`
	State engine.StateSnapshot `json:"state"`
}

func (s *Server) createSession(c fiber.Ctx) error {
	var req createRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	sess, err := s.sessions.Create(engine.Size{Width: req.Width, Height: req.Height, PixelRatio: req.PixelRatio})
	if err != nil {
		return s.fail(c, err)
	}
	st, err := sess.State(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(createResponse{ID: sess.ID, State: st})
}

func (s *Server) frame(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	doc := sess.Frame()
	if doc == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	c.Set("Content-Type", "image/svg+xml")
	c.Set("Cache-Control", "no-store")
	return c.Send(doc)
}

func (s *Server) state(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	st, err := sess.State(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(st)
}

func (s *Server) event(c fiber.Ctx) error {
	sess, err := s.sessions.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var ev engine.Event
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	res, err := sess.Dispatch(c.Context(), ev)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(res)
}

func (s *Server) zoom(in bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess, err := s.sessions.Get(c.Params("id"))
		if err != nil {
			return s.fail(c, err)
		}
		st, err := sess.Zoom(c.Context(), in)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(st)
	}
}

func (s *Server) deleteSession(c fiber.Ctx) error {
	if err := s.sessions.Delete(c.Context(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) fail(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, engine.ErrDestroyed),
		errors.Is(err, engine.ErrLoopStopped):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrUnknownEvent):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrEmptySurface), errors.Is(err, engine.ErrNoSurface):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, ErrTooManySessions), errors.Is(err, ErrClosed):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
