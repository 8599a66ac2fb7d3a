// Package pco is a client for the Planning Center REST API.
//
// Every call issues exactly one HTTP request. The client never retries and
// never caches; caching lives in package query. Responses arrive in the
// JSON-API envelope {"data": ...}; the client unwraps data, decodes it into
// typed resources and validates them before returning.
//
// Products covered: Services (service types, plans, teams, plan people),
// People, Calendar, Check-Ins and Giving.
package pco
