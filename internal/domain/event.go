package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventAnalysisCompleted is the type of event emitted after every analysis.
const EventAnalysisCompleted = "analysis.completed"

// AnalysisEvent summarizes one completed analysis for downstream consumers.
type AnalysisEvent struct {
	ID               string             `json:"id"`
	Type             string             `json:"type"`
	Location         string             `json:"location,omitempty"`
	Coordinates      Coordinates        `json:"coordinates"`
	RocketType       RocketType         `json:"rocketType"`
	ModelSubType     ModelSubType       `json:"modelSubType,omitempty"`
	Levels           map[Category]Level `json:"levels"`
	CountryAvailable bool               `json:"countryAvailable"`
	CountryCode      string             `json:"countryCode,omitempty"`
	OccurredAt       time.Time          `json:"occurredAt"`
}

// NewAnalysisEvent builds the event for req and its report. country may be nil.
func NewAnalysisEvent(req AnalysisRequest, country *CountryRecord, report AnalysisReport) AnalysisEvent {
	evt := AnalysisEvent{
		ID:           uuid.NewString(),
		Type:         EventAnalysisCompleted,
		Location:     req.Location,
		RocketType:   req.RocketType,
		ModelSubType: req.ModelSubType,
		Levels:       report.Levels(),
		OccurredAt:   clock.Now().UTC(),
	}
	if req.Coordinates != nil {
		evt.Coordinates = *req.Coordinates
	}
	if country != nil {
		evt.CountryAvailable = true
		evt.CountryCode = country.Code
	}
	return evt
}
