package account

import (
	"errors"
	"testing"
)

func TestPlainScheme(t *testing.T) {
	scheme := PlainScheme{}

	sealed, err := scheme.Seal("pw")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if sealed != "pw" {
		t.Fatalf("plain seal changed the secret: %q", sealed)
	}

	if err := scheme.Compare(sealed, "pw"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := scheme.Compare(sealed, "wrong"); !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("expected ErrSecretMismatch, got %v", err)
	}
}

func TestBcryptScheme(t *testing.T) {
	scheme := BcryptScheme{Cost: 4} // minimum cost to keep the test fast

	sealed, err := scheme.Seal("pw")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if sealed == "pw" {
		t.Fatal("bcrypt seal left the secret in the clear")
	}

	if err := scheme.Compare(sealed, "pw"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := scheme.Compare(sealed, "wrong"); !errors.Is(err, ErrSecretMismatch) {
		t.Fatalf("expected ErrSecretMismatch, got %v", err)
	}
}
