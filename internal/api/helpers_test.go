package api

import (
	"testing"
	"time"

	"github.com/glundgren93/railboard/internal/model"
)

const (
	paris     = "stop_area:SNCF:87686006"
	lyon      = "stop_area:SNCF:87723197"
	marseille = "stop_area:SNCF:87751008"
	tgv       = "Train grande vitesse"
)

func place(id, name string) *model.SectionPlace {
	return &model.SectionPlace{
		ID:           id,
		Name:         name,
		EmbeddedType: "stop_area",
		StopArea:     &model.StopArea{ID: id, Name: name},
	}
}

// ptSection builds a public transport section. Empty base times mean the
// provider sent no realtime data.
func ptSection(number, from, to, dep, arr, baseDep, baseArr string) model.Section {
	return model.Section{
		Type:                  "public_transport",
		From:                  place(from, from),
		To:                    place(to, to),
		DepartureDateTime:     dep,
		ArrivalDateTime:       arr,
		BaseDepartureDateTime: baseDep,
		BaseArrivalDateTime:   baseArr,
		DisplayInformations: &model.DisplayInformations{
			CommercialMode: "TGV INOUI",
			PhysicalMode:   tgv,
			Headsign:       number,
		},
	}
}

func directJourney(number, from, to, dep, arr string) model.RawJourney {
	return model.RawJourney{
		Sections: []model.Section{
			{Type: "crow_fly"},
			ptSection(number, from, to, dep, arr, "", ""),
			{Type: "crow_fly"},
		},
	}
}

func TestParseJourneys(t *testing.T) {
	raw := []model.RawJourney{{
		Duration:    7200,
		NbTransfers: 0,
		Sections: []model.Section{
			ptSection("6611", paris, lyon, "20260310T080500", "20260310T101200", "20260310T080000", "20260310T100000"),
		},
	}}

	journeys, skipped := ParseJourneys(raw, time.UTC)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(journeys) != 1 {
		t.Fatalf("expected 1 journey, got %d", len(journeys))
	}

	j := journeys[0]
	if j.TrainNumber != "6611" {
		t.Errorf("train number = %q, want 6611", j.TrainNumber)
	}
	if j.Operator != "TGV INOUI" {
		t.Errorf("operator = %q, want TGV INOUI", j.Operator)
	}
	if j.OriginID != paris || j.DestinationID != lyon {
		t.Errorf("route = %s → %s, want %s → %s", j.OriginID, j.DestinationID, paris, lyon)
	}
	if want := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC); !j.ScheduledDeparture.Equal(want) {
		t.Errorf("scheduled departure = %v, want %v", j.ScheduledDeparture, want)
	}
	if want := time.Date(2026, 3, 10, 8, 5, 0, 0, time.UTC); !j.ExpectedDeparture.Equal(want) {
		t.Errorf("expected departure = %v, want %v", j.ExpectedDeparture, want)
	}
	if j.DepartureDelayMinutes == nil || *j.DepartureDelayMinutes != 5 {
		t.Errorf("departure delay = %v, want 5", j.DepartureDelayMinutes)
	}
	if j.ArrivalDelayMinutes == nil || *j.ArrivalDelayMinutes != 12 {
		t.Errorf("arrival delay = %v, want 12", j.ArrivalDelayMinutes)
	}
	if !j.Delayed {
		t.Error("a 12 minute arrival delay should mark the journey delayed")
	}
	if j.DurationMinutes != 120 {
		t.Errorf("duration = %d, want 120", j.DurationMinutes)
	}
}

func TestParseJourneys_NoRealtime(t *testing.T) {
	raw := []model.RawJourney{directJourney("6611", paris, lyon, "20260310T080000", "20260310T095600")}

	journeys, _ := ParseJourneys(raw, time.UTC)
	if len(journeys) != 1 {
		t.Fatalf("expected 1 journey, got %d", len(journeys))
	}
	j := journeys[0]
	if j.DepartureDelayMinutes != nil || j.ArrivalDelayMinutes != nil {
		t.Error("delays should be unknown without base times")
	}
	if j.Delayed {
		t.Error("journey without realtime data should not be delayed")
	}
	if !j.ExpectedArrival.Equal(j.ScheduledArrival) {
		t.Error("expected arrival should default to the scheduled arrival")
	}
	// no journey duration, falls back to arrival minus departure
	if j.DurationMinutes != 116 {
		t.Errorf("duration = %d, want 116", j.DurationMinutes)
	}
}

func TestParseJourneys_MissingScheduledTime(t *testing.T) {
	raw := []model.RawJourney{
		directJourney("6601", paris, lyon, "20260310T070000", "20260310T085600"),
		directJourney("6603", paris, lyon, "", "20260310T095600"),
		directJourney("6605", paris, lyon, "20260310T090000", "20260310T105600"),
		{Sections: []model.Section{{Type: "street_network"}}},
	}

	journeys, skipped := ParseJourneys(raw, time.UTC)
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(journeys) != 2 {
		t.Fatalf("expected 2 journeys, got %d", len(journeys))
	}
	if journeys[0].TrainNumber != "6601" || journeys[1].TrainNumber != "6605" {
		t.Errorf("kept %q and %q, want 6601 and 6605", journeys[0].TrainNumber, journeys[1].TrainNumber)
	}
}

func TestParseJourneys_Empty(t *testing.T) {
	journeys, skipped := ParseJourneys(nil, time.UTC)
	if journeys == nil {
		t.Error("empty input should give an empty slice, not nil")
	}
	if len(journeys) != 0 || skipped != 0 {
		t.Errorf("got %d journeys, %d skipped, want none", len(journeys), skipped)
	}
}

func TestParseJourneys_WithChange(t *testing.T) {
	raw := []model.RawJourney{{
		NbTransfers: 1,
		Sections: []model.Section{
			ptSection("6611", paris, lyon, "20260310T080000", "20260310T100000", "", ""),
			{Type: "transfer"},
			ptSection("6171", lyon, marseille, "20260310T103000", "20260310T121500", "", ""),
		},
	}}

	journeys, _ := ParseJourneys(raw, time.UTC)
	if len(journeys) != 1 {
		t.Fatalf("expected 1 journey, got %d", len(journeys))
	}
	j := journeys[0]
	if j.OriginID != paris || j.DestinationID != marseille {
		t.Errorf("route = %s → %s, want %s → %s", j.OriginID, j.DestinationID, paris, marseille)
	}
	if j.TrainNumber != "6611" {
		t.Errorf("train number = %q, want the first train 6611", j.TrainNumber)
	}
	if j.Transfers != 1 {
		t.Errorf("transfers = %d, want 1", j.Transfers)
	}
}

func TestParseJourneys_Location(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}
	raw := []model.RawJourney{directJourney("6611", paris, lyon, "20260310T080000", "20260310T095600")}

	journeys, _ := ParseJourneys(raw, loc)
	if want := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC); !journeys[0].ScheduledDeparture.Equal(want) {
		t.Errorf("08:00 Paris = %v, want %v", journeys[0].ScheduledDeparture.UTC(), want)
	}
}

func TestDelayThreshold(t *testing.T) {
	tests := []struct {
		name    string
		baseArr string
		arr     string
		want    bool
	}{
		{"on time", "20260310T100000", "20260310T100000", false},
		{"exactly five", "20260310T100000", "20260310T100500", false},
		{"six minutes", "20260310T100000", "20260310T100600", true},
		{"early", "20260310T100000", "20260310T095500", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []model.RawJourney{{Sections: []model.Section{
				ptSection("1", paris, lyon, "20260310T080000", tt.arr, "20260310T080000", tt.baseArr),
			}}}
			journeys, _ := ParseJourneys(raw, time.UTC)
			if got := journeys[0].Delayed; got != tt.want {
				t.Errorf("Delayed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLyonPartDieuDepartures(t *testing.T) {
	raw := []model.RawJourney{
		directJourney("6615", paris, lyon, "20260310T100000", "20260310T115600"),
		directJourney("6105", paris, marseille, "20260310T073000", "20260310T104000"),
		directJourney("6611", paris, lyon, "20260310T080000", "20260310T095600"),
	}
	journeys, _ := ParseJourneys(raw, time.UTC)

	q := model.Query{
		StationID:       paris,
		Mode:            model.ModeDepartures,
		FilterStationID: lyon,
		OperatorFilter:  model.AllOperators,
	}
	got := SortJourneys(ApplyFilters(journeys, q), model.SortByDeparture)

	if len(got) != 2 {
		t.Fatalf("expected 2 journeys to Lyon Part-Dieu, got %d", len(got))
	}
	if got[0].TrainNumber != "6611" || got[1].TrainNumber != "6615" {
		t.Errorf("order = %s, %s, want 6611, 6615", got[0].TrainNumber, got[1].TrainNumber)
	}
}

func TestFilterByStation(t *testing.T) {
	journeys := []model.Journey{
		{TrainNumber: "1", OriginID: paris, DestinationID: lyon},
		{TrainNumber: "2", OriginID: lyon, DestinationID: marseille},
		{TrainNumber: "3", OriginID: paris, DestinationID: marseille},
	}

	if got := FilterByStation(journeys, model.ModeDepartures, marseille); len(got) != 2 {
		t.Errorf("departures to Marseille = %d, want 2", len(got))
	}
	if got := FilterByStation(journeys, model.ModeArrivals, paris); len(got) != 2 {
		t.Errorf("arrivals from Paris = %d, want 2", len(got))
	}
	if got := FilterByStation(journeys, model.ModeDepartures, "stop_area:SNCF:00000000"); got == nil || len(got) != 0 {
		t.Errorf("unknown station should give an empty slice, got %v", got)
	}
	if got := FilterByStation(journeys, model.ModeDepartures, ""); len(got) != 3 {
		t.Errorf("no station filter should return all, got %d", len(got))
	}
}

func TestFilterByOperator(t *testing.T) {
	journeys := []model.Journey{
		{TrainNumber: "1", Operator: "TGV INOUI"},
		{TrainNumber: "2", Operator: "OUIGO"},
		{TrainNumber: "3", Operator: "TGV INOUI"},
	}

	if got := FilterByOperator(journeys, "TGV INOUI"); len(got) != 2 {
		t.Errorf("expected 2 TGV INOUI, got %d", len(got))
	}

	// Case insensitive
	if got := FilterByOperator(journeys, "ouigo"); len(got) != 1 {
		t.Errorf("expected 1 OUIGO (case insensitive), got %d", len(got))
	}

	for _, op := range []string{"", "All", "all"} {
		got := FilterByOperator(journeys, op)
		if len(got) != 3 {
			t.Errorf("operator %q should return all, got %d", op, len(got))
		}
	}

	if got := FilterByOperator(journeys, "Eurostar"); got == nil || len(got) != 0 {
		t.Errorf("no match should give an empty slice, got %v", got)
	}
}

func TestFilterDirectAndHighSpeed(t *testing.T) {
	journeys := []model.Journey{
		{TrainNumber: "1", PhysicalMode: tgv},
		{TrainNumber: "2", PhysicalMode: tgv, Transfers: 1},
		{TrainNumber: "3", PhysicalMode: "TER / Intercités"},
		{TrainNumber: "4", PhysicalMode: "High speed train"},
	}

	if got := FilterDirect(journeys); len(got) != 3 {
		t.Errorf("direct = %d, want 3", len(got))
	}
	if got := FilterHighSpeed(journeys); len(got) != 3 {
		t.Errorf("high speed = %d, want 3", len(got))
	}

	q := model.Query{DirectOnly: true, HighSpeedOnly: true}
	got := ApplyFilters(journeys, q)
	if len(got) != 2 || got[0].TrainNumber != "1" || got[1].TrainNumber != "4" {
		t.Errorf("direct high-speed = %v, want trains 1 and 4", got)
	}
}

func TestSortJourneys(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC) }
	journeys := []model.Journey{
		{TrainNumber: "C", ScheduledDeparture: at(9, 0), ScheduledArrival: at(11, 0)},
		{TrainNumber: "B", ScheduledDeparture: at(8, 0), ScheduledArrival: at(12, 0)},
		{TrainNumber: "A", ScheduledDeparture: at(9, 0), ScheduledArrival: at(10, 30)},
	}

	byDep := SortJourneys(append([]model.Journey(nil), journeys...), model.SortByDeparture)
	if got := byDep[0].TrainNumber + byDep[1].TrainNumber + byDep[2].TrainNumber; got != "BAC" {
		t.Errorf("by departure = %s, want BAC", got)
	}

	byArr := SortJourneys(append([]model.Journey(nil), journeys...), model.SortByArrival)
	if got := byArr[0].TrainNumber + byArr[1].TrainNumber + byArr[2].TrainNumber; got != "ACB" {
		t.Errorf("by arrival = %s, want ACB", got)
	}

	// Sorting twice changes nothing
	again := SortJourneys(append([]model.Journey(nil), byDep...), model.SortByDeparture)
	for i := range again {
		if again[i].TrainNumber != byDep[i].TrainNumber {
			t.Fatalf("second sort moved %s to position %d", again[i].TrainNumber, i)
		}
	}
}

func TestSummarize(t *testing.T) {
	ten, two := 10, 2
	journeys := []model.Journey{
		{Operator: "TGV INOUI", ArrivalDelayMinutes: &ten, Delayed: true},
		{Operator: "OUIGO", ArrivalDelayMinutes: &two},
		{Operator: "TGV INOUI"},
	}

	s := Summarize(journeys)
	if s.Total != 3 || s.Delayed != 1 || s.OnTime != 2 {
		t.Errorf("total/delayed/on time = %d/%d/%d, want 3/1/2", s.Total, s.Delayed, s.OnTime)
	}
	if s.AverageArrivalDelay != 4 {
		t.Errorf("average arrival delay = %v, want 4", s.AverageArrivalDelay)
	}
	if len(s.Operators) != 2 || s.Operators[0] != "OUIGO" || s.Operators[1] != "TGV INOUI" {
		t.Errorf("operators = %v, want [OUIGO TGV INOUI]", s.Operators)
	}

	empty := Summarize(nil)
	if empty.Total != 0 || empty.AverageArrivalDelay != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestSortJourneys_NumericTrainNumbers(t *testing.T) {
	dep := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	journeys := []model.Journey{
		{TrainNumber: "10", ScheduledDeparture: dep},
		{TrainNumber: "EST9014", ScheduledDeparture: dep},
		{TrainNumber: "9", ScheduledDeparture: dep},
		{TrainNumber: "6611", ScheduledDeparture: dep},
	}

	got := SortJourneys(journeys, model.SortByDeparture)
	want := []string{"9", "10", "6611", "EST9014"}
	for i, w := range want {
		if got[i].TrainNumber != w {
			t.Errorf("position %d = %s, want %s", i, got[i].TrainNumber, w)
		}
	}
}
