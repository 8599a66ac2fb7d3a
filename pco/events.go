package pco

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// NewEvent is the input for CreateEvent.
type NewEvent struct {
	Name        string    `json:"name"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	EventType   string    `json:"event_type,omitempty"`
}

type eventWrite struct {
	Name        string `json:"name"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	EventType   string `json:"event_type,omitempty"`
}

// Events lists calendar events between start and end. Empty bounds are
// omitted from the filter.
func (c *Client) Events(ctx context.Context, start, end string) ([]Event, error) {
	params := url.Values{}
	if start != "" {
		params.Set("where[starts_at]", start)
	}
	if end != "" {
		params.Set("where[ends_at]", end)
	}
	return getList[EventAttributes](ctx, c, "events", "/calendar/v2/events", params)
}

// CreateEvent creates a calendar event. Required fields and time ordering
// are checked by the server.
func (c *Client) CreateEvent(ctx context.Context, in NewEvent) (Event, error) {
	return write[EventAttributes](ctx, c, "events", http.MethodPost, "/calendar/v2/events", writeResource{
		Type: TypeEvent,
		Attributes: eventWrite{
			Name:        in.Name,
			StartsAt:    in.StartsAt.Format(time.RFC3339),
			EndsAt:      in.EndsAt.Format(time.RFC3339),
			Location:    in.Location,
			Description: in.Description,
			EventType:   in.EventType,
		},
	})
}
