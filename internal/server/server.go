package server

import (
	"context"
	"errors"
	"time"

	"github.com/glundgren93/railboard/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rickb777/date"
	"go.uber.org/zap"
)

// StationResolver is the part of the resolver the API needs.
type StationResolver interface {
	Resolve(ctx context.Context, name, countryHint string) (model.Station, error)
	ResolveInput(ctx context.Context, input, countryHint string) (model.Station, error)
	Stations(country string) []model.Station
}

// BoardFetcher is the part of the fetcher the API needs.
type BoardFetcher interface {
	Fetch(ctx context.Context, q model.Query) ([]model.Journey, error)
	SearchTrainNumber(ctx context.Context, trainNumber string, stations []model.Station, day date.Date) ([]model.Journey, error)
}

// Server serves station boards over HTTP for the dashboard.
type Server struct {
	resolver  StationResolver
	fetcher   BoardFetcher
	loc       *time.Location
	log       *zap.SugaredLogger
	version   string
	startedAt time.Time
	now       func() time.Time
	app       *fiber.App
}

func New(resolver StationResolver, fetcher BoardFetcher, loc *time.Location, log *zap.SugaredLogger, version string) *Server {
	if loc == nil {
		loc = time.UTC
	}
	s := &Server{
		resolver:  resolver,
		fetcher:   fetcher,
		loc:       loc,
		log:       log,
		version:   version,
		startedAt: time.Now(),
		now:       time.Now,
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if c.Path() != "/health" {
			s.log.Infow("request", "method", c.Method(), "path", c.Path(), "status", responseStatus(c, err))
		}
		return err
	})

	app.Use(cors.New())

	s.routes(app)
	s.app = app
	return s
}

// responseStatus is the status the client will see. Errors returned by a
// handler are only turned into a response by fiber's error handler, after the
// middleware has run.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func (s *Server) routes(app *fiber.App) {
	app.Get("/health", s.GetHealth)

	api := app.Group("/api")
	api.Get("/stations", s.GetStations)
	api.Get("/stations/resolve", s.ResolveStation)
	api.Get("/board", s.GetBoard)
	api.Get("/trains/:number", s.GetTrain)
	api.Get("/operators", s.GetOperators)
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.log.Infow("dashboard api listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
