package secret

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"
)

func encryptTo(t *testing.T, path string, r age.Recipient, plaintext string, armored bool) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var dst io.Writer = f
	var aw io.WriteCloser
	if armored {
		aw = armor.NewWriter(f)
		dst = aw
	}
	w, err := age.Encrypt(dst, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if aw != nil {
		if err := aw.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAgeProvider(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	keyPath := filepath.Join(dir, "pco.agekey")
	if err := os.WriteFile(keyPath, []byte("# pcogateway\n"+id.String()+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	encryptTo(t, filepath.Join(dir, "secret.age"), id.Recipient(), "pco-secret\n", false)
	encryptTo(t, filepath.Join(dir, "token.age"), id.Recipient(), "pat-123", true)

	p, err := NewAgeProvider(keyPath)
	if err != nil {
		t.Fatalf("NewAgeProvider: %v", err)
	}
	p.Files.Root = dir

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"secret.age", "pco-secret", nil},
		{"token.age", "pat-123", nil},
		{"missing.age", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := p.Resolve(context.Background(), tt.ref)
			if !errors.Is(err, tt.wantErr) || got != tt.want {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.ref, got, err, tt.want, tt.wantErr)
			}
		})
	}

	r := NewResolver(true, p)
	got, err := r.ResolveValue(context.Background(), "secretref:age:secret.age")
	if err != nil || got != "pco-secret" {
		t.Errorf("ResolveValue = %q, %v", got, err)
	}
}

func TestAgeProvider_WrongIdentity(t *testing.T) {
	owner, _ := age.GenerateX25519Identity()
	other, _ := age.GenerateX25519Identity()
	dir := t.TempDir()
	encryptTo(t, filepath.Join(dir, "secret.age"), owner.Recipient(), "x", false)

	p := &AgeProvider{Identities: []age.Identity{other}, Files: FileProvider{Root: dir}}
	if _, err := p.Resolve(context.Background(), "secret.age"); err == nil {
		t.Fatal("expected decrypt failure with a foreign identity")
	}
	if _, err := (&AgeProvider{}).Resolve(context.Background(), "secret.age"); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("err = %v, want ErrNoIdentity", err)
	}
}

func TestNewAgeProvider_NoKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.agekey")
	if err := os.WriteFile(path, []byte("# nothing here\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewAgeProvider(path); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("err = %v, want ErrNoIdentity", err)
	}
}
