package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/api"
	"github.com/glundgren93/railboard/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/hako/durafmt"
	"github.com/rickb777/date"
)

func (s *Server) GetHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:   "healthy",
		Version:  s.version,
		Uptime:   durafmt.Parse(time.Since(s.startedAt).Truncate(time.Second)).String(),
		Stations: len(s.resolver.Stations("")),
	})
}

func (s *Server) GetStations(c *fiber.Ctx) error {
	return c.JSON(s.resolver.Stations(c.Query("country")))
}

func (s *Server) ResolveStation(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return badRequest(c, "name query parameter is required")
	}
	station, err := s.resolver.Resolve(c.UserContext(), name, c.Query("country"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(station)
}

func (s *Server) GetOperators(c *fiber.Ctx) error {
	return c.JSON(api.KnownOperators)
}

// GetBoard serves a departures or arrivals board. Query parameters mirror
// the board command: station, mode, filter, date, time, operator, sort,
// count, all_trains and country.
func (s *Server) GetBoard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := strings.TrimSpace(c.Query("station"))
	if input == "" {
		return badRequest(c, "station query parameter is required")
	}

	q, err := s.boardQuery(c)
	if err != nil {
		return s.fail(c, err)
	}

	country := c.Query("country")
	station, err := s.resolver.ResolveInput(ctx, input, country)
	if err != nil {
		return s.fail(c, err)
	}
	q.StationID = station.ProviderID

	var filter *model.Station
	if f := strings.TrimSpace(c.Query("filter")); f != "" {
		fs, err := s.resolver.ResolveInput(ctx, f, "")
		if err != nil {
			return s.fail(c, err)
		}
		q.FilterStationID = fs.ProviderID
		filter = &fs
	}

	journeys, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(BoardResponse{
		Station:  station,
		Filter:   filter,
		Mode:     q.Mode,
		Date:     q.Date,
		Journeys: journeys,
		Summary:  api.Summarize(journeys),
	})
}

func (s *Server) boardQuery(c *fiber.Ctx) (model.Query, error) {
	mode, err := api.ParseMode(c.Query("mode"))
	if err != nil {
		return model.Query{}, err
	}
	sortBy, err := api.ParseSortKey(c.Query("sort"))
	if err != nil {
		return model.Query{}, err
	}
	day, err := api.ParseDate(c.Query("date"), s.today())
	if err != nil {
		return model.Query{}, err
	}
	tod, err := api.ParseTimeOfDay(c.Query("time"))
	if err != nil {
		return model.Query{}, err
	}
	allTrains := c.QueryBool("all_trains", false)

	return model.Query{
		Mode:           mode,
		Date:           day,
		Time:           tod,
		OperatorFilter: c.Query("operator", model.AllOperators),
		SortBy:         sortBy,
		Count:          min(c.QueryInt("count", api.DefaultJourneyCount), api.MaxJourneyCount),
		DirectOnly:     !allTrains,
		HighSpeedOnly:  !allTrains,
	}, nil
}

func (s *Server) GetTrain(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	day, err := api.ParseDate(c.Query("date"), s.today())
	if err != nil {
		return s.fail(c, err)
	}

	journeys, err := s.fetcher.SearchTrainNumber(c.UserContext(), number, s.resolver.Stations(""), day)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(TrainResponse{TrainNumber: number, Date: day, Journeys: journeys})
}

func (s *Server) today() date.Date {
	return date.NewAt(s.now().In(s.loc))
}

// fail maps domain errors to HTTP statuses.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, api.ErrStationNotFound), errors.Is(err, api.ErrInvalidStation):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "Station not found",
			Message: err.Error(),
		})
	case errors.Is(err, api.ErrInvalidQuery):
		return badRequest(c, err.Error())
	case errors.Is(err, api.ErrProviderUnavailable), errors.Is(err, api.ErrMalformedResponse):
		s.log.Warnw("provider failure", "path", c.Path(), "error", err)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Error:   "Provider unavailable",
			Message: err.Error(),
		})
	}
	s.log.Errorw("request failed", "path", c.Path(), "error", err)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "Internal error",
		Message: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Bad Request",
		Message: message,
	})
}
