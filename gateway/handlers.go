package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonwraymond/pcokit/accessor"
	"github.com/jonwraymond/pcokit/calendar"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/query"
)

const maxBodyBytes = 1 << 20

// serveQuery mounts q for the duration of the request and writes its
// settled state.
func serveQuery[T any](s *Server, w http.ResponseWriter, r *http.Request, q *query.Query[T]) {
	q.Start(r.Context())
	defer q.Stop()

	st := q.State()
	if st.Err != nil {
		s.writeError(w, r, st.Err)
		return
	}
	writeData(w, http.StatusOK, st.Data)
}

func serveMutation[A, T any](s *Server, w http.ResponseWriter, r *http.Request, m *query.Mutation[A, T], args A, code int) {
	if err := m.Mutate(r.Context(), args); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, code, m.State().Data)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func (s *Server) serviceTypes(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.ServiceTypes(query.Options[[]pco.ServiceType]{}))
}

func (s *Server) plans(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.Plans(chi.URLParam(r, "st"), query.Options[[]pco.Plan]{}))
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.Plan(chi.URLParam(r, "st"), chi.URLParam(r, "plan"), query.Options[pco.Plan]{}))
}

func (s *Server) teams(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.Teams(chi.URLParam(r, "st"), query.Options[[]pco.Team]{}))
}

func (s *Server) team(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.Team(chi.URLParam(r, "st"), chi.URLParam(r, "team"), query.Options[pco.Team]{}))
}

func (s *Server) schedules(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.Schedules(chi.URLParam(r, "st"), chi.URLParam(r, "plan"), query.Options[[]pco.Schedule]{}))
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	var in pco.NewSchedule
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	args := accessor.CreateScheduleArgs{
		ServiceTypeID: chi.URLParam(r, "st"),
		PlanID:        chi.URLParam(r, "plan"),
		Schedule:      in,
	}
	serveMutation(s, w, r, s.api.CreateSchedule(accessor.MutationOptions[pco.Schedule]{}), args, http.StatusCreated)
}

func (s *Server) updateSchedule(w http.ResponseWriter, r *http.Request) {
	var in pco.ScheduleUpdate
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	args := accessor.UpdateScheduleArgs{
		ServiceTypeID: chi.URLParam(r, "st"),
		PlanID:        chi.URLParam(r, "plan"),
		ScheduleID:    chi.URLParam(r, "schedule"),
		Update:        in,
	}
	serveMutation(s, w, r, s.api.UpdateSchedule(accessor.MutationOptions[pco.Schedule]{}), args, http.StatusOK)
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	args := accessor.DeleteScheduleArgs{
		ServiceTypeID: chi.URLParam(r, "st"),
		PlanID:        chi.URLParam(r, "plan"),
		ScheduleID:    chi.URLParam(r, "schedule"),
	}
	serveMutation(s, w, r, s.api.DeleteSchedule(accessor.MutationOptions[accessor.Deleted]{}), args, http.StatusOK)
}

func (s *Server) people(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	serveQuery(s, w, r, s.api.People(q, query.Options[[]pco.Person]{}))
}

func (s *Server) person(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.Person(chi.URLParam(r, "id"), query.Options[pco.Person]{}))
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	serveQuery(s, w, r, s.api.Events(start, end, query.Options[[]pco.Event]{}))
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var in pco.NewEvent
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	serveMutation(s, w, r, s.api.CreateEvent(accessor.MutationOptions[pco.Event]{}), in, http.StatusCreated)
}

func (s *Server) checkIns(w http.ResponseWriter, r *http.Request) {
	serveQuery(s, w, r, s.api.CheckIns(chi.URLParam(r, "event"), query.Options[[]pco.CheckIn]{}))
}

func (s *Server) createCheckIn(w http.ResponseWriter, r *http.Request) {
	var in pco.NewCheckIn
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	args := accessor.CreateCheckInArgs{EventID: chi.URLParam(r, "event"), CheckIn: in}
	serveMutation(s, w, r, s.api.CreateCheckIn(accessor.MutationOptions[pco.CheckIn]{}), args, http.StatusCreated)
}

func (s *Server) donations(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	serveQuery(s, w, r, s.api.Donations(start, end, query.Options[[]pco.Donation]{}))
}

func (s *Server) createDonation(w http.ResponseWriter, r *http.Request) {
	var in pco.NewDonation
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	serveMutation(s, w, r, s.api.CreateDonation(accessor.MutationOptions[pco.Donation]{}), in, http.StatusCreated)
}

// calendarEvents serves events in calendar form. type is a comma separated list
// of event types; day (YYYY-MM-DD) narrows to one day; days narrows to the
// window starting now.
func (s *Server) calendarEvents(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var filter calendar.Filter
	for _, t := range strings.Split(params.Get("type"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter.Types = append(filter.Types, calendar.ParseEventType(t))
		}
	}

	var day time.Time
	if v := params.Get("day"); v != "" {
		d, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: day: %v", ErrBadRequest, err))
			return
		}
		day = d
	}
	days := 0
	if v := params.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, fmt.Errorf("%w: days must be a non-negative integer", ErrBadRequest))
			return
		}
		days = n
	}

	q := s.api.Events(params.Get("start"), params.Get("end"), query.Options[[]pco.Event]{})
	q.Start(r.Context())
	defer q.Stop()

	st := q.State()
	if st.Err != nil {
		s.writeError(w, r, st.Err)
		return
	}

	events := filter.Apply(calendar.FromPCOList(st.Data))
	switch {
	case !day.IsZero():
		events = calendar.OnDay(events, day)
	case days > 0:
		events = calendar.Upcoming(events, s.now(), days)
	}
	if events == nil {
		events = []calendar.Event{}
	}
	writeData(w, http.StatusOK, events)
}
