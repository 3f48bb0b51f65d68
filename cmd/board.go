package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/api"
	"github.com/glundgren93/railboard/internal/format"
	"github.com/glundgren93/railboard/internal/model"
	"github.com/rickb777/date"
	"github.com/spf13/cobra"
)

var (
	boardTo        string
	boardFrom      string
	boardArrivals  bool
	boardDate      string
	boardTime      string
	boardOperator  string
	boardSort      string
	boardCount     int
	boardAllTrains bool
	boardCountry   string
)

var boardCmd = &cobra.Command{
	Use:   "board <station>",
	Short: "Show the departure or arrival board of a station",
	Long: `Show the high-speed departures from (or arrivals at) a station.

Stations can be given by name (see 'railboard stations') or by provider id.

Examples:
  railboard board "Paris Gare de Lyon"                          # Next departures
  railboard board "Paris Gare de Lyon" --to "Lyon Part-Dieu"     # Only trains to Lyon
  railboard board "Lyon Part-Dieu" --arrivals --from Marseille   # Arrivals from Marseille
  railboard board "Paris Gare de Lyon" --date tomorrow --time 08:00
  railboard board "Paris Gare de Lyon" --operator OUIGO --sort arrival
  railboard board "Paris Montparnasse" --json                    # JSON output`,
	Aliases: []string{"departures", "dep", "b"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&boardTo, "to", "", "Only departures to this station")
	boardCmd.Flags().StringVar(&boardFrom, "from", "", "Only arrivals from this station (with --arrivals)")
	boardCmd.Flags().BoolVar(&boardArrivals, "arrivals", false, "Show arrivals instead of departures")
	boardCmd.Flags().StringVar(&boardDate, "date", "", "Travel date: today, tomorrow or YYYY-MM-DD")
	boardCmd.Flags().StringVar(&boardTime, "time", "", "Earliest time of day (HH:MM); midnight if unset")
	boardCmd.Flags().StringVar(&boardOperator, "operator", model.AllOperators, "Operator filter: "+strings.Join(api.KnownOperators, ", "))
	boardCmd.Flags().StringVar(&boardSort, "sort", "departure", "Sort by departure or arrival time")
	boardCmd.Flags().IntVar(&boardCount, "count", api.DefaultJourneyCount, "Journeys to request from the provider")
	boardCmd.Flags().BoolVar(&boardAllTrains, "all-trains", false, "Include regional trains and journeys with changes")
	boardCmd.Flags().StringVar(&boardCountry, "country", "", "Country hint for station names (e.g. FR, GB)")

	rootCmd.AddCommand(boardCmd)
}

// boardResult is the JSON output for board.
type boardResult struct {
	Station  model.Station   `json:"station"`
	Filter   *model.Station  `json:"filter,omitempty"`
	Query    model.Query     `json:"query"`
	Journeys []model.Journey `json:"journeys"`
	Summary  model.Summary   `json:"summary"`
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	q, err := buildBoardQuery(a.cfg.Location())
	if err != nil {
		return err
	}

	station, err := a.resolver.ResolveInput(ctx, strings.Join(args, " "), boardCountry)
	if err != nil {
		return fmt.Errorf("resolving station: %w", err)
	}
	q.StationID = station.ProviderID

	var filter *model.Station
	counterpart := boardTo
	if q.Mode == model.ModeArrivals {
		counterpart = boardFrom
	}
	if counterpart != "" {
		s, err := a.resolver.ResolveInput(ctx, counterpart, "")
		if err != nil {
			return fmt.Errorf("resolving %s: %w", counterpart, err)
		}
		filter = &s
		q.FilterStationID = s.ProviderID
	}

	journeys, err := a.fetcher.Fetch(ctx, q)
	if err != nil {
		return err
	}
	summary := api.Summarize(journeys)

	if jsonOutput {
		return format.JSON(boardResult{
			Station:  station,
			Filter:   filter,
			Query:    q,
			Journeys: journeys,
			Summary:  summary,
		})
	}

	format.Board(boardTitle(q.Mode, station, filter), boardSubtitle(q), journeys, summary)
	return nil
}

func buildBoardQuery(loc *time.Location) (model.Query, error) {
	mode := model.ModeDepartures
	if boardArrivals {
		mode = model.ModeArrivals
	}
	if boardFrom != "" && !boardArrivals {
		return model.Query{}, fmt.Errorf("--from needs --arrivals (use --to for departures)")
	}
	if boardTo != "" && boardArrivals {
		return model.Query{}, fmt.Errorf("--to cannot be combined with --arrivals (use --from)")
	}

	day, err := api.ParseDate(boardDate, date.NewAt(time.Now().In(loc)))
	if err != nil {
		return model.Query{}, err
	}
	tod, err := api.ParseTimeOfDay(boardTime)
	if err != nil {
		return model.Query{}, err
	}
	sortKey, err := api.ParseSortKey(boardSort)
	if err != nil {
		return model.Query{}, err
	}

	return model.Query{
		Mode:           mode,
		Date:           day,
		Time:           tod,
		OperatorFilter: boardOperator,
		SortBy:         sortKey,
		Count:          boardCount,
		DirectOnly:     !boardAllTrains,
		HighSpeedOnly:  !boardAllTrains,
	}, nil
}

func boardTitle(mode model.Mode, station model.Station, filter *model.Station) string {
	switch {
	case filter == nil && mode == model.ModeArrivals:
		return "Arrivals at " + station.Name
	case filter == nil:
		return "Departures from " + station.Name
	case mode == model.ModeArrivals:
		return filter.Name + " → " + station.Name
	default:
		return station.Name + " → " + filter.Name
	}
}

func boardSubtitle(q model.Query) string {
	parts := []string{q.Date.Format("Monday, January 02, 2006")}
	if q.Time != nil {
		parts = append(parts, "from "+q.Time.HhMm())
	}
	if q.OperatorFilter != "" && !strings.EqualFold(q.OperatorFilter, model.AllOperators) {
		parts = append(parts, q.OperatorFilter)
	}
	parts = append(parts, "sorted by "+string(q.SortBy))
	return strings.Join(parts, " · ")
}
