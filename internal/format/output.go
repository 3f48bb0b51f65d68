package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/glundgren93/railboard/internal/api"
	"github.com/glundgren93/railboard/internal/model"
)

var (
	bold      = color.New(color.Bold)
	green     = color.New(color.FgGreen, color.Bold)
	yellow    = color.New(color.FgYellow)
	red       = color.New(color.FgRed)
	cyan      = color.New(color.FgCyan)
	dim       = color.New(color.Faint)
	fastIcon  = "🚄"
	trainIcon = "🚆"
)

// Out is where human output goes. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

// ModeIcon returns the emoji icon for a provider physical mode.
func ModeIcon(physicalMode string) string {
	if api.IsHighSpeed(physicalMode) {
		return fastIcon
	}
	return trainIcon
}

// JSON outputs any value as formatted JSON.
func JSON(v any) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Duration renders minutes the way the boards show them, e.g. "2h05".
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// Board prints a station board in human-readable format.
func Board(title, subtitle string, journeys []model.Journey, summary model.Summary) {
	if len(journeys) == 0 {
		dim.Fprintln(Out, "No journeys found.")
		return
	}

	bold.Fprintf(Out, "🚉 %s\n", title)
	if subtitle != "" {
		dim.Fprintf(Out, "%s\n", subtitle)
	}
	fmt.Fprintln(Out, strings.Repeat("─", 78))

	for _, j := range journeys {
		fmt.Fprintf(Out, "%s %-12s %-10s ", ModeIcon(j.PhysicalMode), truncate(j.Operator, 12), truncate(j.TrainNumber, 10))
		cyan.Fprintf(Out, "%s", j.ScheduledDeparture.Format("15:04"))
		fmt.Fprintf(Out, "%s → ", formatDelay(j.DepartureDelayMinutes))
		cyan.Fprintf(Out, "%s", j.ScheduledArrival.Format("15:04"))
		fmt.Fprintf(Out, "%s ", formatDelay(j.ArrivalDelayMinutes))
		dim.Fprintf(Out, "%-6s", Duration(j.DurationMinutes))
		fmt.Fprintf(Out, " %s → %s", j.Origin, j.Destination)
		if j.Transfers > 0 {
			dim.Fprintf(Out, " (%d change(s))", j.Transfers)
		}
		fmt.Fprintln(Out)
	}

	fmt.Fprintln(Out, strings.Repeat("─", 78))
	Summary(summary)
}

// Summary prints the board statistics line.
func Summary(s model.Summary) {
	delayed := green.Sprintf("%d delayed", s.Delayed)
	if s.Delayed > 0 {
		delayed = red.Sprintf("%d delayed", s.Delayed)
	}
	fmt.Fprintf(Out, "%d train(s) · %s · %d on time · avg arrival delay %.0f min\n",
		s.Total, delayed, s.OnTime, s.AverageArrivalDelay)
	if len(s.Operators) > 0 {
		dim.Fprintf(Out, "Operators: %s\n", strings.Join(s.Operators, ", "))
	}
	fmt.Fprintln(Out)
}

func formatDelay(delay *int) string {
	switch {
	case delay == nil, *delay == 0:
		return "     "
	case *delay > api.DelayThresholdMinutes:
		return red.Sprintf(" %+3d", *delay) + " "
	default:
		return yellow.Sprintf(" %+3d", *delay) + " "
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Stations prints the station table.
func Stations(stations []model.Station) {
	if len(stations) == 0 {
		dim.Fprintln(Out, "No stations configured.")
		return
	}

	bold.Fprintf(Out, "Found %d station(s)\n", len(stations))
	fmt.Fprintln(Out, strings.Repeat("─", 60))
	for i, s := range stations {
		fmt.Fprintf(Out, "  %2d. %-28s %s ", i+1, s.Name, s.CountryCode)
		dim.Fprintf(Out, "(%s)\n", s.ProviderID)
		if len(s.Connections) > 0 {
			dim.Fprintf(Out, "      → %s\n", strings.Join(s.Connections, ", "))
		}
	}
	fmt.Fprintln(Out)
}

// Station prints a single resolved station.
func Station(s model.Station) {
	bold.Fprintf(Out, "📍 %s", s.Name)
	if s.CountryCode != "" {
		fmt.Fprintf(Out, " [%s]", s.CountryCode)
	}
	fmt.Fprintln(Out)
	dim.Fprintf(Out, "   id: %s\n", s.ProviderID)
}
