package pco

import "time"

// JSON-API resource types.
const (
	TypeServiceType = "ServiceType"
	TypePlan        = "Plan"
	TypePerson      = "Person"
	TypeTeam        = "Team"
	TypePlanPerson  = "PlanPerson"
	TypeEvent       = "Event"
	TypeCheckIn     = "CheckIn"
	TypeDonation    = "Donation"
	TypeStation     = "Station"
	TypeFund        = "Fund"
	TypePayment     = "PaymentMethod"
)

// Schedule statuses for plan people.
const (
	StatusConfirmed   = "C"
	StatusUnconfirmed = "U"
	StatusDeclined    = "D"
)

type (
	ServiceType = Resource[ServiceTypeAttributes]
	Plan        = Resource[PlanAttributes]
	Person      = Resource[PersonAttributes]
	Team        = Resource[TeamAttributes]
	Schedule    = Resource[ScheduleAttributes]
	Event       = Resource[EventAttributes]
	CheckIn     = Resource[CheckInAttributes]
	Donation    = Resource[DonationAttributes]
)

// ServiceTypeAttributes describes a Services service type, e.g. "Sunday Morning".
type ServiceTypeAttributes struct {
	Name        string     `json:"name"`
	Permissions string     `json:"permissions,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
	UpdatedAt   time.Time  `json:"updated_at,omitzero"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (ServiceTypeAttributes) ResourceType() string { return TypeServiceType }

func (a ServiceTypeAttributes) Validate() error { return required("name", a.Name) }

// PlanAttributes describes one plan (a service on a date).
type PlanAttributes struct {
	Title           string    `json:"title,omitempty"`
	SeriesTitle     string    `json:"series_title,omitempty"`
	Dates           string    `json:"dates,omitempty"`
	SortDate        time.Time `json:"sort_date,omitzero"`
	TotalLength     int       `json:"total_length,omitempty"`
	RehearsalLength int       `json:"rehearsal_length,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

func (PlanAttributes) ResourceType() string { return TypePlan }

func (PlanAttributes) Validate() error { return nil }

// PersonAttributes describes a People profile.
type PersonAttributes struct {
	Name           string     `json:"name,omitempty"`
	GivenName      string     `json:"given_name,omitempty"`
	FirstName      string     `json:"first_name"`
	MiddleName     string     `json:"middle_name,omitempty"`
	LastName       string     `json:"last_name"`
	Birthdate      string     `json:"birthdate,omitempty"`
	Anniversary    string     `json:"anniversary,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Grade          *int       `json:"grade,omitempty"`
	Child          bool       `json:"child"`
	GraduationYear *int       `json:"graduation_year,omitempty"`
	Status         string     `json:"status,omitempty"`
	MembershipType string     `json:"membership,omitempty"`
	InactiveReason string     `json:"inactive_reason,omitempty"`
	Avatar         string     `json:"avatar,omitempty"`
	NamePrefix     string     `json:"name_prefix,omitempty"`
	NameSuffix     string     `json:"name_suffix,omitempty"`
	SiteAdmin      bool       `json:"site_administrator,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitzero"`
	UpdatedAt      time.Time  `json:"updated_at,omitzero"`
	InactivatedAt  *time.Time `json:"inactivated_at,omitempty"`
}

func (PersonAttributes) ResourceType() string { return TypePerson }

func (a PersonAttributes) Validate() error {
	if a.Name == "" && a.FirstName == "" && a.LastName == "" {
		return &ValidationError{Field: "name", Reason: "first_name, last_name and name are all empty"}
	}
	return nil
}

// DisplayName returns the best available full name.
func (a PersonAttributes) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	first := a.FirstName
	if a.GivenName != "" {
		first = a.GivenName
	}
	switch {
	case first == "":
		return a.LastName
	case a.LastName == "":
		return first
	}
	return first + " " + a.LastName
}

// TeamAttributes describes a Services team, e.g. "Band" or "Tech".
type TeamAttributes struct {
	Name                  string     `json:"name"`
	SequenceNumber        int        `json:"sequence_number,omitempty"`
	ScheduleToPreferences bool       `json:"schedule_to,omitempty"`
	DefaultStatus         string     `json:"default_status,omitempty"`
	RehearsalTeam         bool       `json:"rehearsal_team,omitempty"`
	CreatedAt             time.Time  `json:"created_at,omitzero"`
	UpdatedAt             time.Time  `json:"updated_at,omitzero"`
	ArchivedAt            *time.Time `json:"archived_at,omitempty"`
}

func (TeamAttributes) ResourceType() string { return TypeTeam }

func (a TeamAttributes) Validate() error { return required("name", a.Name) }

// ScheduleAttributes describes a plan person: someone scheduled onto a plan
// for a team.
type ScheduleAttributes struct {
	Status        string     `json:"status"`
	Name          string     `json:"name,omitempty"`
	TeamPosition  string     `json:"team_position_name,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitzero"`
	UpdatedAt     time.Time  `json:"updated_at,omitzero"`
	RespondedAt   *time.Time `json:"status_updated_at,omitempty"`
}

func (ScheduleAttributes) ResourceType() string { return TypePlanPerson }

func (a ScheduleAttributes) Validate() error { return required("status", a.Status) }

// EventAttributes describes a Calendar event. EventType is a free-form tag;
// package calendar maps it onto its taxonomy.
type EventAttributes struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at,omitzero"`
	EndsAt      time.Time `json:"ends_at,omitzero"`
	EventType   string    `json:"event_type,omitempty"`
	Ministry    string    `json:"ministry,omitempty"`
	Resources   []string  `json:"resources,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

func (EventAttributes) ResourceType() string { return TypeEvent }

func (a EventAttributes) Validate() error {
	if err := required("name", a.Name); err != nil {
		return err
	}
	if !a.StartsAt.IsZero() && !a.EndsAt.IsZero() && a.EndsAt.Before(a.StartsAt) {
		return &ValidationError{Field: "ends_at", Reason: "is before starts_at"}
	}
	return nil
}

// CheckInAttributes describes one Check-Ins record.
type CheckInAttributes struct {
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Kind          string     `json:"kind,omitempty"`
	SecurityCode  string     `json:"security_code,omitempty"`
	MedicalNotes  string     `json:"medical_notes,omitempty"`
	SecurityNotes string     `json:"security_notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitzero"`
	CheckedOutAt  *time.Time `json:"checked_out_at,omitempty"`
}

func (CheckInAttributes) ResourceType() string { return TypeCheckIn }

func (CheckInAttributes) Validate() error { return nil }

// DonationAttributes describes a Giving donation.
type DonationAttributes struct {
	AmountCents    int        `json:"amount_cents"`
	AmountCurrency string     `json:"amount_currency,omitempty"`
	PaymentMethod  string     `json:"payment_method,omitempty"`
	PaymentStatus  string     `json:"payment_status,omitempty"`
	Note           string     `json:"note,omitempty"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitzero"`
	UpdatedAt      time.Time  `json:"updated_at,omitzero"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
}

func (DonationAttributes) ResourceType() string { return TypeDonation }

func (a DonationAttributes) Validate() error {
	if a.AmountCents < 0 {
		return &ValidationError{Field: "amount_cents", Reason: "is negative"}
	}
	return nil
}
