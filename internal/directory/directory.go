// Package directory implements the manager-role provisioning layer:
// creating and removing customer account records by identifier.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cedarbank/cedar_bank/internal/account"
	"github.com/cedarbank/cedar_bank/internal/store"
)

var (
	// ErrAlreadyExists occurs when creating an identifier that already has
	// a record.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrInvalidIdentifier rejects empty identifiers.
	ErrInvalidIdentifier = errors.New("identifier must not be empty")
)

// DefaultOpeningBalance is the fixed starting balance for new accounts.
var DefaultOpeningBalance = decimal.RequireFromString("100.0")

// Directory provisions customer records against a persistence provider.
type Directory struct {
	store   store.Store
	scheme  account.SecretScheme
	opening decimal.Decimal
}

// New builds a directory. Every record it creates starts at the opening
// balance, which puts new accounts in the silver tier.
func New(st store.Store, scheme account.SecretScheme, opening decimal.Decimal) *Directory {
	return &Directory{store: st, scheme: scheme, opening: opening}
}

// OpeningBalance reports the starting balance for newly created accounts.
func (d *Directory) OpeningBalance() decimal.Decimal {
	return d.opening
}

// Create provisions a new customer record. The secret is sealed by the
// configured scheme before it is persisted.
func (d *Directory) Create(ctx context.Context, identifier, secret string) error {
	if identifier == "" {
		return ErrInvalidIdentifier
	}

	exists, err := d.store.Exists(ctx, identifier)
	if err != nil {
		return fmt.Errorf("check identifier %s: %w", identifier, err)
	}
	if exists {
		return ErrAlreadyExists
	}

	sealed, err := d.scheme.Seal(secret)
	if err != nil {
		return err
	}

	return d.store.Save(ctx, store.Record{
		Identifier: identifier,
		Secret:     sealed,
		Balance:    d.opening,
		Kind:       store.KindCustomer,
	})
}

// Remove deletes the customer record for identifier. Records of another
// kind are invisible here and report store.ErrNotFound.
func (d *Directory) Remove(ctx context.Context, identifier string) error {
	rec, err := d.store.Load(ctx, identifier)
	if err != nil {
		return err
	}
	if rec.Kind != store.KindCustomer {
		return store.ErrNotFound
	}
	return d.store.Delete(ctx, identifier)
}
