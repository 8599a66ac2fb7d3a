package secret

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// ErrNoIdentity is returned when an age identity file holds no usable key.
var ErrNoIdentity = errors.New("secret: no age identity")

// AgeProvider resolves a ref as the path of an age-encrypted file, binary
// or ASCII-armored, and returns the decrypted contents with trailing
// newlines trimmed.
type AgeProvider struct {
	Identities []age.Identity
	Files      FileProvider
}

// NewAgeProvider loads the identities in identityPath, one
// AGE-SECRET-KEY per line. Comment and blank lines are skipped.
func NewAgeProvider(identityPath string) (*AgeProvider, error) {
	f, err := os.Open(identityPath)
	if err != nil {
		return nil, fmt.Errorf("secret: open age identity: %w", err)
	}
	defer f.Close()

	ids, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	return &AgeProvider{Identities: ids}, nil
}

// Name returns "age".
func (p *AgeProvider) Name() string { return "age" }

// Resolve decrypts the file named by ref.
func (p *AgeProvider) Resolve(_ context.Context, ref string) (string, error) {
	if len(p.Identities) == 0 {
		return "", ErrNoIdentity
	}
	path, err := p.Files.path(ref)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: age %s", ErrNotFound, ref)
		}
		return "", fmt.Errorf("secret: read %s: %w", ref, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br
	if peek, _ := br.Peek(len(armor.Header)); string(peek) == armor.Header {
		src = armor.NewReader(br)
	}

	plain, err := age.Decrypt(src, p.Identities...)
	if err != nil {
		return "", fmt.Errorf("secret: decrypt %s: %w", ref, err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("secret: decrypt %s: %w", ref, err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

var _ Provider = (*AgeProvider)(nil)
