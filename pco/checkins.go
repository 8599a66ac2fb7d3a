package pco

import (
	"context"
	"net/http"
)

// NewCheckIn is the input for CreateCheckIn.
type NewCheckIn struct {
	PersonID      string `json:"person_id"`
	StationID     string `json:"station_id"`
	MedicalNotes  string `json:"medical_notes,omitempty"`
	SecurityNotes string `json:"security_notes,omitempty"`
}

type checkInWrite struct {
	MedicalNotes  string `json:"medical_notes,omitempty"`
	SecurityNotes string `json:"security_notes,omitempty"`
}

func checkInsPath(eventID string) (string, error) {
	id, err := seg("event id", eventID)
	if err != nil {
		return "", err
	}
	return "/check-ins/v2/events/" + id + "/check_ins", nil
}

// CheckIns lists the check-ins of an event.
func (c *Client) CheckIns(ctx context.Context, eventID string) ([]CheckIn, error) {
	path, err := checkInsPath(eventID)
	if err != nil {
		return nil, err
	}
	return getList[CheckInAttributes](ctx, c, "checkIns", path, nil)
}

// CreateCheckIn checks a person in at a station.
func (c *Client) CreateCheckIn(ctx context.Context, eventID string, in NewCheckIn) (CheckIn, error) {
	path, err := checkInsPath(eventID)
	if err != nil {
		return CheckIn{}, err
	}
	if in.PersonID == "" {
		return CheckIn{}, missingID("person id")
	}
	if in.StationID == "" {
		return CheckIn{}, missingID("station id")
	}
	return write[CheckInAttributes](ctx, c, "checkIns", http.MethodPost, path, writeResource{
		Type:       TypeCheckIn,
		Attributes: checkInWrite{MedicalNotes: in.MedicalNotes, SecurityNotes: in.SecurityNotes},
		Relationships: Relationships{
			"person":  related(TypePerson, in.PersonID),
			"station": related(TypeStation, in.StationID),
		},
	})
}
