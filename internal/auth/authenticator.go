package auth

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned when a secret does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator decides whether a presented secret grants coordinator access.
type Authenticator interface {
	Authenticate(ctx context.Context, secret string) error
}

// SharedSecretAuthenticator checks a single shared password against its bcrypt hash.
type SharedSecretAuthenticator struct {
	hash string
}

// NewSharedSecretAuthenticator prefers a precomputed hash and otherwise hashes
// the plaintext password once. With neither configured every attempt is rejected.
func NewSharedSecretAuthenticator(password, hash string, cost int) (*SharedSecretAuthenticator, error) {
	if hash == "" && password != "" {
		h, err := HashPassword(password, cost)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	return &SharedSecretAuthenticator{hash: hash}, nil
}

// Enabled reports whether a secret is configured.
func (a *SharedSecretAuthenticator) Enabled() bool {
	return a != nil && a.hash != ""
}

func (a *SharedSecretAuthenticator) Authenticate(_ context.Context, secret string) error {
	if !a.Enabled() || secret == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(a.hash, secret); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
