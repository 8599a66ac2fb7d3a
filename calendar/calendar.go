// Package calendar models ministry calendar events on top of Planning Center
// Calendar events: a fixed type taxonomy, type filtering, day grouping and
// an upcoming-events window.
package calendar

import (
	"slices"
	"strings"
	"time"

	"github.com/jonwraymond/pcokit/pco"
)

// EventType classifies an event.
type EventType string

const (
	TypeService  EventType = "service"
	TypeYouth    EventType = "youth"
	TypePrayer   EventType = "prayer"
	TypeMusic    EventType = "music"
	TypeStudy    EventType = "study"
	TypeOutreach EventType = "outreach"
	TypeMeeting  EventType = "meeting"
)

var labels = map[EventType]string{
	TypeService:  "Services",
	TypeYouth:    "Youth Events",
	TypePrayer:   "Prayer Meetings",
	TypeMusic:    "Music Practice",
	TypeStudy:    "Bible Study",
	TypeOutreach: "Outreach",
	TypeMeeting:  "Meetings",
}

// Types returns every event type in display order.
func Types() []EventType {
	return []EventType{TypeService, TypeYouth, TypePrayer, TypeMusic, TypeStudy, TypeOutreach, TypeMeeting}
}

// Label returns the display label, e.g. "Bible Study".
func (t EventType) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return labels[TypeMeeting]
}

// ParseEventType maps a free-form tag onto the taxonomy. Matching ignores
// case and surrounding space. Unknown tags are meetings.
func ParseEventType(s string) EventType {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := labels[t]; ok {
		return t
	}
	return TypeMeeting
}

// Event is one calendar entry.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Type        EventType `json:"type"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Ministry    string    `json:"ministry,omitempty"`
	Resources   []string  `json:"resources,omitempty"`
}

// FromPCO converts a remote event. An event without an end ends at its start.
func FromPCO(e pco.Event) Event {
	a := e.Attributes
	desc := a.Description
	if desc == "" {
		desc = a.Summary
	}
	end := a.EndsAt
	if end.IsZero() {
		end = a.StartsAt
	}
	return Event{
		ID:          e.ID,
		Title:       a.Name,
		Start:       a.StartsAt,
		End:         end,
		Type:        ParseEventType(a.EventType),
		Location:    a.Location,
		Description: desc,
		Ministry:    a.Ministry,
		Resources:   slices.Clone(a.Resources),
	}
}

// FromPCOList converts remote events.
func FromPCOList(events []pco.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, FromPCO(e))
	}
	return out
}

// Filter selects events by type.
type Filter struct {
	// Types to keep. Empty keeps every type.
	Types []EventType
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	return len(f.Types) == 0 || slices.Contains(f.Types, e.Type)
}

// Apply returns the events that pass the filter, in their original order.
func (f Filter) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// OnDay returns the events overlapping the calendar day of day, in day's
// location, sorted by start.
func OnDay(events []Event, day time.Time) []Event {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	var out []Event
	for _, e := range events {
		if overlaps(e, from, to) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

// Upcoming returns the events starting within days days of now, sorted by
// start.
func Upcoming(events []Event, now time.Time, days int) []Event {
	until := now.AddDate(0, 0, days)
	var out []Event
	for _, e := range events {
		if !e.Start.Before(now) && !e.Start.After(until) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

func overlaps(e Event, from, to time.Time) bool {
	if !e.Start.Before(to) {
		return false
	}
	if e.End.After(e.Start) {
		return e.End.After(from)
	}
	return !e.Start.Before(from)
}

func sortByStart(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
}
