package pco

import (
	"context"
	"net/http"
)

// NewSchedule is the input for CreateSchedule.
type NewSchedule struct {
	PersonID string `json:"person_id"`
	TeamID   string `json:"team_id"`
	// Status defaults to StatusUnconfirmed.
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ScheduleUpdate is the input for UpdateSchedule. Empty fields are left
// unchanged.
type ScheduleUpdate struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type scheduleWrite struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ServiceTypes lists service types.
func (c *Client) ServiceTypes(ctx context.Context) ([]ServiceType, error) {
	return getList[ServiceTypeAttributes](ctx, c, "serviceTypes", "/services/v2/service_types", nil)
}

func serviceTypePath(serviceTypeID string) (string, error) {
	st, err := seg("service type id", serviceTypeID)
	if err != nil {
		return "", err
	}
	return "/services/v2/service_types/" + st, nil
}

func planPath(serviceTypeID, planID string) (string, error) {
	base, err := serviceTypePath(serviceTypeID)
	if err != nil {
		return "", err
	}
	p, err := seg("plan id", planID)
	if err != nil {
		return "", err
	}
	return base + "/plans/" + p, nil
}

// Plans lists the plans of a service type.
func (c *Client) Plans(ctx context.Context, serviceTypeID string) ([]Plan, error) {
	base, err := serviceTypePath(serviceTypeID)
	if err != nil {
		return nil, err
	}
	return getList[PlanAttributes](ctx, c, "plans", base+"/plans", nil)
}

// Plan fetches one plan.
func (c *Client) Plan(ctx context.Context, serviceTypeID, planID string) (Plan, error) {
	path, err := planPath(serviceTypeID, planID)
	if err != nil {
		return Plan{}, err
	}
	return getOne[PlanAttributes](ctx, c, "plan", path, nil)
}

// Teams lists the teams of a service type.
func (c *Client) Teams(ctx context.Context, serviceTypeID string) ([]Team, error) {
	base, err := serviceTypePath(serviceTypeID)
	if err != nil {
		return nil, err
	}
	return getList[TeamAttributes](ctx, c, "teams", base+"/teams", nil)
}

// Team fetches one team.
func (c *Client) Team(ctx context.Context, serviceTypeID, teamID string) (Team, error) {
	base, err := serviceTypePath(serviceTypeID)
	if err != nil {
		return Team{}, err
	}
	t, err := seg("team id", teamID)
	if err != nil {
		return Team{}, err
	}
	return getOne[TeamAttributes](ctx, c, "team", base+"/teams/"+t, nil)
}

// Schedules lists the people scheduled on a plan.
func (c *Client) Schedules(ctx context.Context, serviceTypeID, planID string) ([]Schedule, error) {
	path, err := planPath(serviceTypeID, planID)
	if err != nil {
		return nil, err
	}
	return getList[ScheduleAttributes](ctx, c, "schedules", path+"/plan_people", nil)
}

// CreateSchedule schedules a person onto a plan for a team.
func (c *Client) CreateSchedule(ctx context.Context, serviceTypeID, planID string, in NewSchedule) (Schedule, error) {
	path, err := planPath(serviceTypeID, planID)
	if err != nil {
		return Schedule{}, err
	}
	if in.PersonID == "" {
		return Schedule{}, missingID("person id")
	}
	if in.TeamID == "" {
		return Schedule{}, missingID("team id")
	}
	status := in.Status
	if status == "" {
		status = StatusUnconfirmed
	}
	return write[ScheduleAttributes](ctx, c, "schedules", http.MethodPost, path+"/plan_people", writeResource{
		Type:       TypePlanPerson,
		Attributes: scheduleWrite{Status: status, Notes: in.Notes},
		Relationships: Relationships{
			"person": related(TypePerson, in.PersonID),
			"team":   related(TypeTeam, in.TeamID),
		},
	})
}

// UpdateSchedule changes the status or notes of a plan person.
func (c *Client) UpdateSchedule(ctx context.Context, serviceTypeID, planID, scheduleID string, in ScheduleUpdate) (Schedule, error) {
	path, err := planPath(serviceTypeID, planID)
	if err != nil {
		return Schedule{}, err
	}
	id, err := seg("schedule id", scheduleID)
	if err != nil {
		return Schedule{}, err
	}
	return write[ScheduleAttributes](ctx, c, "schedules", http.MethodPatch, path+"/plan_people/"+id, writeResource{
		Type:       TypePlanPerson,
		ID:         scheduleID,
		Attributes: scheduleWrite(in),
	})
}

// DeleteSchedule removes a plan person.
func (c *Client) DeleteSchedule(ctx context.Context, serviceTypeID, planID, scheduleID string) error {
	path, err := planPath(serviceTypeID, planID)
	if err != nil {
		return err
	}
	id, err := seg("schedule id", scheduleID)
	if err != nil {
		return err
	}
	return c.do(ctx, "schedules", http.MethodDelete, path+"/plan_people/"+id, nil, nil, nil)
}
