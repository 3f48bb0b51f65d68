package server

import (
	"github.com/glundgren93/railboard/internal/model"
	"github.com/rickb777/date"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Stations int    `json:"stations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type BoardResponse struct {
	Station  model.Station   `json:"station"`
	Filter   *model.Station  `json:"filter,omitempty"`
	Mode     model.Mode      `json:"mode"`
	Date     date.Date       `json:"date"`
	Journeys []model.Journey `json:"journeys"`
	Summary  model.Summary   `json:"summary"`
}

type TrainResponse struct {
	TrainNumber string          `json:"train_number"`
	Date        date.Date       `json:"date"`
	Journeys    []model.Journey `json:"journeys"`
}
