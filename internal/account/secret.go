package account

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrSecretMismatch occurs when a presented secret does not match the
// stored one.
var ErrSecretMismatch = errors.New("secret mismatch")

// SecretScheme seals secrets for storage and compares presented secrets
// against the sealed form. Keeping the comparison behind this interface
// makes upgrading from plaintext equality to a salted hash a local change.
type SecretScheme interface {
	Seal(secret string) (string, error)
	Compare(sealed, presented string) error
}

// PlainScheme stores the secret as-is and compares in constant time.
// Matches the legacy record format, where secrets were persisted verbatim.
type PlainScheme struct{}

func (PlainScheme) Seal(secret string) (string, error) {
	return secret, nil
}

func (PlainScheme) Compare(sealed, presented string) error {
	if subtle.ConstantTimeCompare([]byte(sealed), []byte(presented)) != 1 {
		return ErrSecretMismatch
	}
	return nil
}

// BcryptScheme seals secrets with bcrypt. Records sealed this way are not
// readable by the legacy flat-file tooling.
type BcryptScheme struct {
	Cost int
}

func (s BcryptScheme) Seal(secret string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("seal secret: %w", err)
	}
	return string(hash), nil
}

func (s BcryptScheme) Compare(sealed, presented string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(sealed), []byte(presented)); err != nil {
		return ErrSecretMismatch
	}
	return nil
}
