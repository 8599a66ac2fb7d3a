// Package gateway exposes the domain accessors as a JSON HTTP API.
//
// Every successful response is a {"data": ...} envelope. Errors are
// {"error": "...", "status": ...} where status is the remote status when the
// failure came from the remote API.
//
// Routes:
//
//	GET    /api/service-types
//	GET    /api/service-types/{st}/plans
//	GET    /api/service-types/{st}/plans/{plan}
//	GET    /api/service-types/{st}/plans/{plan}/schedules
//	POST   /api/service-types/{st}/plans/{plan}/schedules
//	PATCH  /api/service-types/{st}/plans/{plan}/schedules/{schedule}
//	DELETE /api/service-types/{st}/plans/{plan}/schedules/{schedule}
//	GET    /api/service-types/{st}/teams
//	GET    /api/service-types/{st}/teams/{team}
//	GET    /api/people?q=
//	GET    /api/people/{id}
//	GET    /api/events?start=&end=
//	POST   /api/events
//	GET    /api/events/{event}/check-ins
//	POST   /api/events/{event}/check-ins
//	GET    /api/donations?start=&end=
//	POST   /api/donations
//	GET    /api/calendar?start=&end=&type=&day=&days=
//
// The probe endpoints of package health and, when enabled, /metrics are
// mounted next to /api. /api requires a bearer token when an Authenticator
// is configured.
package gateway
