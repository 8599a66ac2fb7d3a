package accessor

import (
	"context"

	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/query"
)

// CreateScheduleArgs are the arguments of CreateSchedule.
type CreateScheduleArgs struct {
	ServiceTypeID string
	PlanID        string
	Schedule      pco.NewSchedule
}

// UpdateScheduleArgs are the arguments of UpdateSchedule.
type UpdateScheduleArgs struct {
	ServiceTypeID string
	PlanID        string
	ScheduleID    string
	Update        pco.ScheduleUpdate
}

// DeleteScheduleArgs are the arguments of DeleteSchedule.
type DeleteScheduleArgs struct {
	ServiceTypeID string
	PlanID        string
	ScheduleID    string
}

// CreateCheckInArgs are the arguments of CreateCheckIn.
type CreateCheckInArgs struct {
	EventID string
	CheckIn pco.NewCheckIn
}

// Deleted is the result of a delete mutation.
type Deleted struct {
	ID string
}

// MutationOptions are the caller-facing options of a mutation. Invalidation
// is fixed per mutation.
type MutationOptions[T any] struct {
	OnSuccess func(T)
	OnError   func(error)
}

func mutationOptions[A, T any](name string, opts MutationOptions[T], invalidates func(A) []string) query.MutationOptions[A, T] {
	return query.MutationOptions[A, T]{
		Name:        name,
		OnSuccess:   opts.OnSuccess,
		OnError:     opts.OnError,
		Invalidates: invalidates,
	}
}

func planSchedules(serviceTypeID, planID string) []string {
	return []string{cache.KeyPrefix(FamilySchedules, serviceTypeID, planID)}
}

func (a *Accessors) CreateSchedule(opts MutationOptions[pco.Schedule]) *query.Mutation[CreateScheduleArgs, pco.Schedule] {
	return query.NewMutation(a.qc, func(ctx context.Context, args CreateScheduleArgs) (pco.Schedule, error) {
		return a.api.CreateSchedule(ctx, args.ServiceTypeID, args.PlanID, args.Schedule)
	}, mutationOptions(FamilySchedules, opts, func(args CreateScheduleArgs) []string {
		return planSchedules(args.ServiceTypeID, args.PlanID)
	}))
}

func (a *Accessors) UpdateSchedule(opts MutationOptions[pco.Schedule]) *query.Mutation[UpdateScheduleArgs, pco.Schedule] {
	return query.NewMutation(a.qc, func(ctx context.Context, args UpdateScheduleArgs) (pco.Schedule, error) {
		return a.api.UpdateSchedule(ctx, args.ServiceTypeID, args.PlanID, args.ScheduleID, args.Update)
	}, mutationOptions(FamilySchedules, opts, func(args UpdateScheduleArgs) []string {
		return planSchedules(args.ServiceTypeID, args.PlanID)
	}))
}

func (a *Accessors) DeleteSchedule(opts MutationOptions[Deleted]) *query.Mutation[DeleteScheduleArgs, Deleted] {
	return query.NewMutation(a.qc, func(ctx context.Context, args DeleteScheduleArgs) (Deleted, error) {
		if err := a.api.DeleteSchedule(ctx, args.ServiceTypeID, args.PlanID, args.ScheduleID); err != nil {
			return Deleted{}, err
		}
		return Deleted{ID: args.ScheduleID}, nil
	}, mutationOptions(FamilySchedules, opts, func(args DeleteScheduleArgs) []string {
		return planSchedules(args.ServiceTypeID, args.PlanID)
	}))
}

func (a *Accessors) CreateEvent(opts MutationOptions[pco.Event]) *query.Mutation[pco.NewEvent, pco.Event] {
	return query.NewMutation(a.qc, a.api.CreateEvent, mutationOptions(FamilyEvents, opts, func(pco.NewEvent) []string {
		return []string{cache.KeyPrefix(FamilyEvents)}
	}))
}

func (a *Accessors) CreateCheckIn(opts MutationOptions[pco.CheckIn]) *query.Mutation[CreateCheckInArgs, pco.CheckIn] {
	return query.NewMutation(a.qc, func(ctx context.Context, args CreateCheckInArgs) (pco.CheckIn, error) {
		return a.api.CreateCheckIn(ctx, args.EventID, args.CheckIn)
	}, mutationOptions(FamilyCheckIns, opts, func(args CreateCheckInArgs) []string {
		return []string{cache.KeyPrefix(FamilyCheckIns, args.EventID)}
	}))
}

func (a *Accessors) CreateDonation(opts MutationOptions[pco.Donation]) *query.Mutation[pco.NewDonation, pco.Donation] {
	return query.NewMutation(a.qc, a.api.CreateDonation, mutationOptions(FamilyDonations, opts, func(pco.NewDonation) []string {
		return []string{cache.KeyPrefix(FamilyDonations)}
	}))
}
