package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRequest marks a request rejected before any work is done.
var ErrInvalidRequest = errors.New("invalid request")

// AnalysisRequest is the inbound body of a location analysis.
type AnalysisRequest struct {
	Location     string       `json:"location"`
	Coordinates  *Coordinates `json:"coordinates"`
	RocketType   RocketType   `json:"rocketType"`
	ModelSubType ModelSubType `json:"modelSubType,omitempty"`
}

// Validate checks required fields and enumerations.
func (r AnalysisRequest) Validate() error {
	if r.Coordinates == nil {
		return invalid("coordinates are required")
	}
	if err := r.Coordinates.Validate(); err != nil {
		return err
	}
	switch r.RocketType {
	case RocketModel, RocketIndustrial:
	case "":
		return invalid("rocketType is required")
	default:
		return invalid("unknown rocketType %q", r.RocketType)
	}
	switch r.ModelSubType {
	case "", ModelHobby, ModelProject:
	default:
		return invalid("unknown modelSubType %q", r.ModelSubType)
	}
	return nil
}

// Validate checks that the pair is a finite WGS-84 coordinate.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return invalid("lat %v out of range [-90, 90]", c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return invalid("lng %v out of range [-180, 180]", c.Lng)
	}
	return nil
}

// WeatherRequest asks for a narrative weather assessment of a launch site.
type WeatherRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"locationName,omitempty"`
}

// Validate checks that both coordinates are present and in range.
func (r WeatherRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return invalid("latitude and longitude are required")
	}
	return r.Coordinates().Validate()
}

// Coordinates returns the request position. Call Validate first.
func (r WeatherRequest) Coordinates() Coordinates {
	var c Coordinates
	if r.Latitude != nil {
		c.Lat = *r.Latitude
	}
	if r.Longitude != nil {
		c.Lng = *r.Longitude
	}
	return c
}

// Chat roles accepted from the browser. The system role is reserved for the
// relay's own prompt.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn of a support conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the conversation so far.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Validate requires at least one message and only user/assistant turns.
func (r ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return invalid("messages are required")
	}
	for i, m := range r.Messages {
		switch m.Role {
		case RoleUser, RoleAssistant:
		default:
			return invalid("messages[%d]: unsupported role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return invalid("messages[%d]: content is empty", i)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
