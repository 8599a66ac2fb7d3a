package secret

import (
	"context"
	"fmt"
	"strings"
)

const refPrefix = "secretref:"

// Resolver resolves secret references using registered providers.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver. A strict resolver rejects empty secrets.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider, len(providers)),
		strict:    strict,
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// DefaultResolver returns a strict resolver with the env and file providers.
func DefaultResolver() *Resolver {
	return NewResolver(true, &EnvProvider{}, &FileProvider{})
}

// Register adds or replaces a provider.
func (r *Resolver) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[p.Name()] = p
}

// ResolveValue resolves value if it is a secretref and returns it unchanged
// otherwise.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	name, ref, ok := ParseSecretRef(value)
	if !ok {
		return value, nil
	}
	p, found := r.providers[name]
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	out, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && out == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptySecret, name)
	}
	return out, nil
}

// ResolveFields resolves each non-empty field in place.
func (r *Resolver) ResolveFields(ctx context.Context, fields map[string]*string) error {
	for key, ptr := range fields {
		if ptr == nil || *ptr == "" {
			continue
		}
		out, err := r.ResolveValue(ctx, *ptr)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}
		*ptr = out
	}
	return nil
}

// ParseSecretRef parses a full secret reference of the form:
//
//	secretref:<provider>:<ref>
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refPrefix)
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}
