// Package auth carries credentials in both directions.
//
// Outbound, the remote API accepts an application id and secret as HTTP Basic
// credentials (BasicTransport) or an OAuth2 bearer token (TokenTransport).
// Both are http.RoundTrippers so the pco client stays unaware of which one is
// in use.
//
// Inbound, the gateway verifies HS256 bearer tokens with JWTAuthenticator and
// attaches the resulting Identity to the request context.
package auth
