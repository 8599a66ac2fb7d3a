package accessor

import (
	"context"

	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/query"
)

// Resource families used in cache keys.
const (
	FamilyServiceTypes = "serviceTypes"
	FamilyPlans        = "plans"
	FamilyPlan         = "plan"
	FamilyPeople       = "people"
	FamilyPerson       = "person"
	FamilyTeams        = "teams"
	FamilyTeam         = "team"
	FamilySchedules    = "schedules"
	FamilyEvents       = "events"
	FamilyCheckIns     = "checkIns"
	FamilyDonations    = "donations"
)

// API is the remote surface used by Accessors. *pco.Client implements it.
type API interface {
	ServiceTypes(ctx context.Context) ([]pco.ServiceType, error)
	Plans(ctx context.Context, serviceTypeID string) ([]pco.Plan, error)
	Plan(ctx context.Context, serviceTypeID, planID string) (pco.Plan, error)
	People(ctx context.Context, query string) ([]pco.Person, error)
	Person(ctx context.Context, personID string) (pco.Person, error)
	Teams(ctx context.Context, serviceTypeID string) ([]pco.Team, error)
	Team(ctx context.Context, serviceTypeID, teamID string) (pco.Team, error)
	Schedules(ctx context.Context, serviceTypeID, planID string) ([]pco.Schedule, error)
	CreateSchedule(ctx context.Context, serviceTypeID, planID string, in pco.NewSchedule) (pco.Schedule, error)
	UpdateSchedule(ctx context.Context, serviceTypeID, planID, scheduleID string, in pco.ScheduleUpdate) (pco.Schedule, error)
	DeleteSchedule(ctx context.Context, serviceTypeID, planID, scheduleID string) error
	Events(ctx context.Context, start, end string) ([]pco.Event, error)
	CreateEvent(ctx context.Context, in pco.NewEvent) (pco.Event, error)
	CheckIns(ctx context.Context, eventID string) ([]pco.CheckIn, error)
	CreateCheckIn(ctx context.Context, eventID string, in pco.NewCheckIn) (pco.CheckIn, error)
	Donations(ctx context.Context, start, end string) ([]pco.Donation, error)
	CreateDonation(ctx context.Context, in pco.NewDonation) (pco.Donation, error)
}

var _ API = (*pco.Client)(nil)

// Accessors creates queries and mutations for one API and query client.
type Accessors struct {
	api API
	qc  *query.Client
}

// New creates Accessors.
func New(api API, qc *query.Client) *Accessors {
	return &Accessors{api: api, qc: qc}
}

// Client returns the query client.
func (a *Accessors) Client() *query.Client {
	return a.qc
}

func (a *Accessors) ServiceTypes(opts query.Options[[]pco.ServiceType]) *query.Query[[]pco.ServiceType] {
	return query.New(a.qc, cache.BuildKey(FamilyServiceTypes), a.api.ServiceTypes, opts)
}

func (a *Accessors) Plans(serviceTypeID string, opts query.Options[[]pco.Plan]) *query.Query[[]pco.Plan] {
	return query.New(a.qc, cache.BuildKey(FamilyPlans, serviceTypeID), func(ctx context.Context) ([]pco.Plan, error) {
		return a.api.Plans(ctx, serviceTypeID)
	}, opts)
}

func (a *Accessors) Plan(serviceTypeID, planID string, opts query.Options[pco.Plan]) *query.Query[pco.Plan] {
	return query.New(a.qc, cache.BuildKey(FamilyPlan, serviceTypeID, planID), func(ctx context.Context) (pco.Plan, error) {
		return a.api.Plan(ctx, serviceTypeID, planID)
	}, opts)
}

// People searches by name or email. An empty search lists everyone and
// shares its key with every other empty search.
func (a *Accessors) People(search string, opts query.Options[[]pco.Person]) *query.Query[[]pco.Person] {
	return query.New(a.qc, cache.BuildKey(FamilyPeople, search), func(ctx context.Context) ([]pco.Person, error) {
		return a.api.People(ctx, search)
	}, opts)
}

func (a *Accessors) Person(personID string, opts query.Options[pco.Person]) *query.Query[pco.Person] {
	return query.New(a.qc, cache.BuildKey(FamilyPerson, personID), func(ctx context.Context) (pco.Person, error) {
		return a.api.Person(ctx, personID)
	}, opts)
}

func (a *Accessors) Teams(serviceTypeID string, opts query.Options[[]pco.Team]) *query.Query[[]pco.Team] {
	return query.New(a.qc, cache.BuildKey(FamilyTeams, serviceTypeID), func(ctx context.Context) ([]pco.Team, error) {
		return a.api.Teams(ctx, serviceTypeID)
	}, opts)
}

func (a *Accessors) Team(serviceTypeID, teamID string, opts query.Options[pco.Team]) *query.Query[pco.Team] {
	return query.New(a.qc, cache.BuildKey(FamilyTeam, serviceTypeID, teamID), func(ctx context.Context) (pco.Team, error) {
		return a.api.Team(ctx, serviceTypeID, teamID)
	}, opts)
}

func (a *Accessors) Schedules(serviceTypeID, planID string, opts query.Options[[]pco.Schedule]) *query.Query[[]pco.Schedule] {
	return query.New(a.qc, cache.BuildKey(FamilySchedules, serviceTypeID, planID), func(ctx context.Context) ([]pco.Schedule, error) {
		return a.api.Schedules(ctx, serviceTypeID, planID)
	}, opts)
}

// Events lists events between start and end. Either bound may be empty.
func (a *Accessors) Events(start, end string, opts query.Options[[]pco.Event]) *query.Query[[]pco.Event] {
	return query.New(a.qc, cache.BuildKey(FamilyEvents, start, end), func(ctx context.Context) ([]pco.Event, error) {
		return a.api.Events(ctx, start, end)
	}, opts)
}

func (a *Accessors) CheckIns(eventID string, opts query.Options[[]pco.CheckIn]) *query.Query[[]pco.CheckIn] {
	return query.New(a.qc, cache.BuildKey(FamilyCheckIns, eventID), func(ctx context.Context) ([]pco.CheckIn, error) {
		return a.api.CheckIns(ctx, eventID)
	}, opts)
}

func (a *Accessors) Donations(start, end string, opts query.Options[[]pco.Donation]) *query.Query[[]pco.Donation] {
	return query.New(a.qc, cache.BuildKey(FamilyDonations, start, end), func(ctx context.Context) ([]pco.Donation, error) {
		return a.api.Donations(ctx, start, end)
	}, opts)
}
