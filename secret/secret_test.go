package secret

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type stubProvider struct {
	name   string
	values map[string]string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := s.values[ref]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		in           string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{"secretref:env:PCO_SECRET_REAL", "env", "PCO_SECRET_REAL", true},
		{"secretref:file:/run/secrets/pco:secret", "file", "/run/secrets/pco:secret", true},
		{"secretref:env:", "", "", false},
		{"secretref::x", "", "", false},
		{"secretref:env", "", "", false},
		{"plain-value", "", "", false},
	}
	for _, tt := range tests {
		p, r, ok := ParseSecretRef(tt.in)
		if p != tt.wantProvider || r != tt.wantRef || ok != tt.wantOK {
			t.Errorf("ParseSecretRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, p, r, ok, tt.wantProvider, tt.wantRef, tt.wantOK)
		}
	}
}

func TestResolver_ResolveValue(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{
		"alpha": "one",
		"blank": "",
	}})
	ctx := context.Background()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain passthrough", "app-secret", "app-secret", nil},
		{"resolved", "secretref:stub:alpha", "one", nil},
		{"unknown provider", "secretref:vault:alpha", "", ErrUnknownProvider},
		{"not found", "secretref:stub:beta", "", ErrNotFound},
		{"strict empty", "secretref:stub:blank", "", ErrEmptySecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveValue(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveValue() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_NonStrictAllowsEmpty(t *testing.T) {
	r := NewResolver(false, &stubProvider{name: "stub", values: map[string]string{"blank": ""}})
	got, err := r.ResolveValue(context.Background(), "secretref:stub:blank")
	if err != nil || got != "" {
		t.Fatalf("ResolveValue() = %q, %v", got, err)
	}
}

func TestResolver_ResolveFields(t *testing.T) {
	t.Setenv("PCOKIT_TEST_REAL_SECRET", "hunter2")
	r := DefaultResolver()

	secret := "secretref:env:PCOKIT_TEST_REAL_SECRET"
	appID := "app-1"
	empty := ""
	err := r.ResolveFields(context.Background(), map[string]*string{
		"secret": &secret,
		"app_id": &appID,
		"empty":  &empty,
		"nil":    nil,
	})
	if err != nil {
		t.Fatalf("ResolveFields() error = %v", err)
	}
	if secret != "hunter2" || appID != "app-1" || empty != "" {
		t.Errorf("got secret=%q appID=%q empty=%q", secret, appID, empty)
	}

	bad := "secretref:env:PCOKIT_TEST_UNSET_VAR"
	err = r.ResolveFields(context.Background(), map[string]*string{"bad": &bad})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResolveFields() error = %v, want ErrNotFound", err)
	}
}

func TestEnvProvider_Lookup(t *testing.T) {
	p := &EnvProvider{Lookup: func(k string) (string, bool) {
		return "v-" + k, k == "SET"
	}}
	if v, err := p.Resolve(context.Background(), "SET"); err != nil || v != "v-SET" {
		t.Errorf("Resolve(SET) = %q, %v", v, err)
	}
	if _, err := p.Resolve(context.Background(), "UNSET"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(UNSET) error = %v", err)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pco_secret"), []byte("s3cr3t\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	p := &FileProvider{Root: dir}
	if v, err := p.Resolve(ctx, "pco_secret"); err != nil || v != "s3cr3t" {
		t.Errorf("Resolve(relative) = %q, %v", v, err)
	}
	if v, err := p.Resolve(ctx, filepath.Join(dir, "pco_secret")); err != nil || v != "s3cr3t" {
		t.Errorf("Resolve(absolute) = %q, %v", v, err)
	}
	if _, err := p.Resolve(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := p.Resolve(ctx, "../etc/passwd"); err == nil {
		t.Error("Resolve outside root should fail")
	}

	unrooted := &FileProvider{}
	if v, err := unrooted.Resolve(ctx, filepath.Join(dir, "pco_secret")); err != nil || v != "s3cr3t" {
		t.Errorf("unrooted Resolve = %q, %v", v, err)
	}
}

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("PCOKIT_TEST_HOST", "redis.internal")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"no vars", "no vars", false},
		{"${PCOKIT_TEST_HOST}:6379", "redis.internal:6379", false},
		{"$PCOKIT_TEST_HOST", "redis.internal", false},
		{"price $$5", "price $5", false},
		{"${PCOKIT_TEST_MISSING_A} ${PCOKIT_TEST_MISSING_A}", "", true},
	}
	for _, tt := range tests {
		got, err := ExpandEnvStrict(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMissingEnv) {
				t.Errorf("ExpandEnvStrict(%q) error = %v, want ErrMissingEnv", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ExpandEnvStrict(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}
