package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// BasicTransport adds application credentials as HTTP Basic auth.
//
// The header value is "Basic " + base64(AppID + ":" + Secret).
type BasicTransport struct {
	AppID  string
	Secret string

	// Base is the underlying transport. Default: http.DefaultTransport
	Base http.RoundTripper
}

// RoundTrip clones req, sets the Authorization header and forwards it.
func (t *BasicTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.AppID == "" || t.Secret == "" {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, ErrMissingCredentials
	}
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.AppID, t.Secret)
	return t.base().RoundTrip(r)
}

func (t *BasicTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// TokenTransport returns a transport that sends bearer tokens from src.
// Tokens are refreshed by src as needed.
func TokenTransport(src oauth2.TokenSource, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, src),
		Base:   base,
	}
}

// StaticToken returns a TokenSource for a personal access token.
func StaticToken(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

// RefreshingToken returns a TokenSource that refreshes tok through cfg.
func RefreshingToken(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) oauth2.TokenSource {
	return cfg.TokenSource(ctx, tok)
}

var _ http.RoundTripper = (*BasicTransport)(nil)
