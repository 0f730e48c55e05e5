// Package store defines the persistence-provider contract for account
// records and its backing drivers. The core never auto-saves; callers own
// the load-mutate-persist cycle and re-save after every mutation.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// KindCustomer tags a record as a customer account, distinguishing it from
// any other record kind a shared backing store might hold.
const KindCustomer = "customer"

// ErrNotFound occurs when no record exists for the requested identifier.
var ErrNotFound = errors.New("account record not found")

// Record is the flat persisted form of an account. The secret is stored
// sealed (whatever the configured secret scheme produced).
type Record struct {
	Identifier string
	Secret     string
	Balance    decimal.Decimal
	Kind       string
}

// Store is the contract every persistence driver satisfies. Errors other
// than ErrNotFound are opaque I/O failures that callers surface as-is.
type Store interface {
	Load(ctx context.Context, identifier string) (Record, error)
	Save(ctx context.Context, rec Record) error
	Exists(ctx context.Context, identifier string) (bool, error)
	Delete(ctx context.Context, identifier string) error
}
