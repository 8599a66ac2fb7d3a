package secret

import "errors"

var (
	// ErrUnknownProvider is returned for a secretref naming an unregistered provider.
	ErrUnknownProvider = errors.New("secret: provider is not registered")

	// ErrNotFound is returned when a provider has no value for a ref.
	ErrNotFound = errors.New("secret: not found")

	// ErrEmptySecret is returned by a strict resolver for an empty value.
	ErrEmptySecret = errors.New("secret: provider returned empty value")

	// ErrMissingEnv is returned by ExpandEnvStrict for unset variables.
	ErrMissingEnv = errors.New("secret: missing required environment variables")
)
