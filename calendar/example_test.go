package calendar_test

import (
	"fmt"
	"time"

	"github.com/jonwraymond/pcokit/calendar"
)

func ExampleFilter_Apply() {
	sunday := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	events := []calendar.Event{
		{Title: "Sunday Service", Type: calendar.TypeService, Start: sunday, End: sunday.Add(2 * time.Hour)},
		{Title: "Youth Night", Type: calendar.TypeYouth, Start: sunday.Add(7 * time.Hour), End: sunday.Add(9 * time.Hour)},
	}

	f := calendar.Filter{Types: []calendar.EventType{calendar.ParseEventType("Youth")}}
	for _, e := range f.Apply(events) {
		fmt.Println(e.Title, "-", e.Type.Label())
	}
	// Output: Youth Night - Youth Events
}
