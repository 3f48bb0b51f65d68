package api

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/model"
	"github.com/thoas/go-funk"
)

// DelayThresholdMinutes is the delay above which a journey counts as delayed.
const DelayThresholdMinutes = 5

// ParseJourneys converts raw provider journeys into normalized journeys, with
// every timestamp parsed in loc. Journeys lacking a public transport section
// or a scheduled departure/arrival are dropped; skipped reports how many.
func ParseJourneys(raw []model.RawJourney, loc *time.Location) (journeys []model.Journey, skipped int) {
	journeys = make([]model.Journey, 0, len(raw))
	for _, rj := range raw {
		j, ok := parseJourney(rj, loc)
		if !ok {
			skipped++
			continue
		}
		journeys = append(journeys, j)
	}
	return journeys, skipped
}

func parseJourney(rj model.RawJourney, loc *time.Location) (model.Journey, bool) {
	var first, last *model.Section
	for i := range rj.Sections {
		if rj.Sections[i].Type != "public_transport" {
			continue
		}
		if first == nil {
			first = &rj.Sections[i]
		}
		last = &rj.Sections[i]
	}
	if first == nil {
		return model.Journey{}, false
	}

	// departure comes from the first train, arrival from the last one
	actualDep, hasDep := parseNavitiaTime(first.DepartureDateTime, loc)
	baseDep, hasBaseDep := parseNavitiaTime(first.BaseDepartureDateTime, loc)
	actualArr, hasArr := parseNavitiaTime(last.ArrivalDateTime, loc)
	baseArr, hasBaseArr := parseNavitiaTime(last.BaseArrivalDateTime, loc)

	j := model.Journey{Transfers: rj.NbTransfers}

	switch {
	case hasBaseDep:
		j.ScheduledDeparture = baseDep
	case hasDep:
		j.ScheduledDeparture = actualDep
	default:
		return model.Journey{}, false
	}
	switch {
	case hasBaseArr:
		j.ScheduledArrival = baseArr
	case hasArr:
		j.ScheduledArrival = actualArr
	default:
		return model.Journey{}, false
	}

	j.ExpectedDeparture = j.ScheduledDeparture
	if hasDep {
		j.ExpectedDeparture = actualDep
	}
	j.ExpectedArrival = j.ScheduledArrival
	if hasArr {
		j.ExpectedArrival = actualArr
	}
	if hasBaseDep && hasDep {
		j.DepartureDelayMinutes = delayMinutes(baseDep, actualDep)
	}
	if hasBaseArr && hasArr {
		j.ArrivalDelayMinutes = delayMinutes(baseArr, actualArr)
	}

	if di := first.DisplayInformations; di != nil {
		j.Operator = di.CommercialMode
		j.PhysicalMode = di.PhysicalMode
		j.TrainNumber = firstNonEmpty(di.Headsign, di.TripShortName, di.Name)
	}
	j.OriginID, j.Origin = first.From.StopAreaRef()
	j.DestinationID, j.Destination = last.To.StopAreaRef()

	if rj.Duration > 0 {
		j.DurationMinutes = rj.Duration / 60
	} else {
		j.DurationMinutes = int(j.ExpectedArrival.Sub(j.ExpectedDeparture).Minutes())
	}

	j.Delayed = exceeds(j.DepartureDelayMinutes, DelayThresholdMinutes) ||
		exceeds(j.ArrivalDelayMinutes, DelayThresholdMinutes)

	return j, true
}

func parseNavitiaTime(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(NavitiaTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func delayMinutes(scheduled, actual time.Time) *int {
	m := int(actual.Sub(scheduled) / time.Minute)
	return &m
}

func exceeds(v *int, limit int) bool {
	return v != nil && *v > limit
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FilterByStation keeps journeys whose destination (departures) or origin
// (arrivals) is the given stop area.
func FilterByStation(journeys []model.Journey, mode model.Mode, stationID string) []model.Journey {
	if stationID == "" {
		return journeys
	}
	filtered := []model.Journey{}
	for _, j := range journeys {
		id := j.DestinationID
		if mode == model.ModeArrivals {
			id = j.OriginID
		}
		if id == stationID {
			filtered = append(filtered, j)
		}
	}
	return filtered
}

// FilterByOperator keeps journeys whose commercial mode matches operator,
// case-insensitively. An empty operator or "All" returns the input unchanged.
func FilterByOperator(journeys []model.Journey, operator string) []model.Journey {
	if operator == "" || strings.EqualFold(operator, model.AllOperators) {
		return journeys
	}
	filtered := []model.Journey{}
	for _, j := range journeys {
		if strings.EqualFold(j.Operator, operator) {
			filtered = append(filtered, j)
		}
	}
	return filtered
}

// FilterDirect drops journeys that need a change of train.
func FilterDirect(journeys []model.Journey) []model.Journey {
	filtered := []model.Journey{}
	for _, j := range journeys {
		if j.Transfers == 0 {
			filtered = append(filtered, j)
		}
	}
	return filtered
}

// IsHighSpeed reports whether a physical mode denotes a high-speed train
// (TGV, ICE, Frecciarossa, AVE... all share the same physical mode).
func IsHighSpeed(physicalMode string) bool {
	mode := strings.ToLower(physicalMode)
	return strings.Contains(mode, "grande vitesse") || strings.Contains(mode, "high speed")
}

// FilterHighSpeed keeps high-speed trains only.
func FilterHighSpeed(journeys []model.Journey) []model.Journey {
	filtered := []model.Journey{}
	for _, j := range journeys {
		if IsHighSpeed(j.PhysicalMode) {
			filtered = append(filtered, j)
		}
	}
	return filtered
}

// ApplyFilters runs every filter the query asks for.
func ApplyFilters(journeys []model.Journey, q model.Query) []model.Journey {
	journeys = FilterByStation(journeys, q.Mode, q.FilterStationID)
	journeys = FilterByOperator(journeys, q.OperatorFilter)
	if q.DirectOnly {
		journeys = FilterDirect(journeys)
	}
	if q.HighSpeedOnly {
		journeys = FilterHighSpeed(journeys)
	}
	return journeys
}

// SortJourneys sorts journeys in place by scheduled departure or arrival,
// breaking ties by train number (numerically when both are numbers), and
// returns the slice.
func SortJourneys(journeys []model.Journey, key model.SortKey) []model.Journey {
	at := func(j model.Journey) time.Time {
		if key == model.SortByArrival {
			return j.ScheduledArrival
		}
		return j.ScheduledDeparture
	}
	sort.SliceStable(journeys, func(a, b int) bool {
		ta, tb := at(journeys[a]), at(journeys[b])
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return trainNumberLess(journeys[a].TrainNumber, journeys[b].TrainNumber)
	})
	return journeys
}

// trainNumberLess orders numeric train numbers by value ("9" before "10") and
// anything else lexicographically.
func trainNumberLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	return a < b
}

// Operators returns the sorted set of operator labels present in journeys.
func Operators(journeys []model.Journey) []string {
	labels := make([]string, 0, len(journeys))
	for _, j := range journeys {
		if j.Operator != "" {
			labels = append(labels, j.Operator)
		}
	}
	unique := funk.UniqString(labels)
	sort.Strings(unique)
	return unique
}

// Summarize computes the statistics shown under a board. Journeys without
// realtime data count as zero arrival delay.
func Summarize(journeys []model.Journey) model.Summary {
	s := model.Summary{
		Total:     len(journeys),
		Operators: Operators(journeys),
	}
	if len(journeys) == 0 {
		return s
	}
	total := 0
	for _, j := range journeys {
		if j.Delayed {
			s.Delayed++
		}
		if j.ArrivalDelayMinutes != nil {
			total += *j.ArrivalDelayMinutes
		}
	}
	s.OnTime = s.Total - s.Delayed
	s.AverageArrivalDelay = float64(total) / float64(len(journeys))
	return s
}
