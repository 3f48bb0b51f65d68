package model

// PlacesResponse is the response from the Navitia places (text search) endpoint.
type PlacesResponse struct {
	Places []Place `json:"places"`
}

// Place is a single text-search hit.
type Place struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Quality      int       `json:"quality"`
	EmbeddedType string    `json:"embedded_type"`
	StopArea     *StopArea `json:"stop_area,omitempty"`
}

type StopArea struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Coord *Coord `json:"coord,omitempty"`
}

type StopPoint struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StopArea *StopArea `json:"stop_area,omitempty"`
}

type Coord struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// JourneysResponse is the response from the Navitia journeys endpoint.
type JourneysResponse struct {
	Journeys []RawJourney `json:"journeys"`
	Context  *Context     `json:"context,omitempty"`
	Error    *APIError    `json:"error,omitempty"`
}

type Context struct {
	Timezone        string `json:"timezone"`
	CurrentDatetime string `json:"current_datetime"`
}

// APIError is the error object Navitia returns alongside 4xx responses.
type APIError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type RawJourney struct {
	Duration          int       `json:"duration"`
	NbTransfers       int       `json:"nb_transfers"`
	DepartureDateTime string    `json:"departure_date_time"`
	ArrivalDateTime   string    `json:"arrival_date_time"`
	Status            string    `json:"status,omitempty"`
	Type              string    `json:"type,omitempty"`
	Sections          []Section `json:"sections"`
}

type Section struct {
	Type                  string               `json:"type"`
	Duration              int                  `json:"duration"`
	From                  *SectionPlace        `json:"from,omitempty"`
	To                    *SectionPlace        `json:"to,omitempty"`
	DepartureDateTime     string               `json:"departure_date_time"`
	ArrivalDateTime       string               `json:"arrival_date_time"`
	BaseDepartureDateTime string               `json:"base_departure_date_time,omitempty"`
	BaseArrivalDateTime   string               `json:"base_arrival_date_time,omitempty"`
	DataFreshness         string               `json:"data_freshness,omitempty"`
	DisplayInformations   *DisplayInformations `json:"display_informations,omitempty"`
}

type SectionPlace struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	EmbeddedType string     `json:"embedded_type"`
	StopPoint    *StopPoint `json:"stop_point,omitempty"`
	StopArea     *StopArea  `json:"stop_area,omitempty"`
}

type DisplayInformations struct {
	CommercialMode string `json:"commercial_mode"`
	PhysicalMode   string `json:"physical_mode"`
	Headsign       string `json:"headsign"`
	TripShortName  string `json:"trip_short_name"`
	Direction      string `json:"direction"`
	Network        string `json:"network"`
	Name           string `json:"name"`
	Label          string `json:"label"`
}

// StopAreaRef returns the stop area a section endpoint belongs to, whichever
// way Navitia embedded it.
func (p *SectionPlace) StopAreaRef() (id, name string) {
	if p == nil {
		return "", ""
	}
	switch {
	case p.StopPoint != nil && p.StopPoint.StopArea != nil:
		return p.StopPoint.StopArea.ID, p.StopPoint.StopArea.Name
	case p.StopArea != nil:
		return p.StopArea.ID, p.StopArea.Name
	case p.StopPoint != nil:
		return p.ID, p.StopPoint.Name
	}
	return p.ID, p.Name
}
