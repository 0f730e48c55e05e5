// Package session owns the load-mutate-persist cycle around an account.
// Each login loads a fresh account from the store, holds an exclusive
// per-identifier lock for the session's duration, and re-persists after
// every mutating call. The core entity itself never saves.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cedarbank/cedar_bank/internal/account"
	"github.com/cedarbank/cedar_bank/internal/store"
	"github.com/cedarbank/cedar_bank/internal/tier"
)

var (
	// ErrInvalidCredentials occurs when the presented secret does not
	// match the stored record.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountBusy occurs when another session already holds the
	// identifier. At most one in-memory mutator per identifier at a time.
	ErrAccountBusy = errors.New("account session already active")
)

// Service opens account sessions against a persistence provider.
type Service struct {
	store  store.Store
	scheme account.SecretScheme

	mu     sync.Mutex
	active map[string]struct{}
}

// NewService builds a session service.
func NewService(st store.Store, scheme account.SecretScheme) *Service {
	return &Service{store: st, scheme: scheme, active: make(map[string]struct{})}
}

// Login verifies credentials, loads a fresh account, and acquires the
// per-identifier lock. The caller must Close the session to release it.
func (s *Service) Login(ctx context.Context, identifier, secret string) (*Session, error) {
	rec, err := s.store.Load(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if rec.Kind != store.KindCustomer {
		return nil, store.ErrNotFound
	}

	if err := s.scheme.Compare(rec.Secret, secret); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.acquire(identifier) {
		return nil, ErrAccountBusy
	}

	acct, err := account.FromRecord(rec)
	if err != nil {
		s.release(identifier)
		return nil, err
	}

	return &Session{svc: s, acct: acct}, nil
}

func (s *Service) acquire(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.active[identifier]; held {
		return false
	}
	s.active[identifier] = struct{}{}
	return true
}

func (s *Service) release(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, identifier)
}

// Session is one customer's exclusive view of their account. Mutations are
// applied in memory first and then persisted; a failed persist leaves the
// in-memory state updated so the caller can retry with Save.
type Session struct {
	svc    *Service
	acct   *account.Account
	closed bool
}

func (s *Session) Identifier() string { return s.acct.Identifier() }

func (s *Session) Balance() decimal.Decimal { return s.acct.Balance() }

func (s *Session) Tier() tier.Tier { return s.acct.Tier() }

// Deposit adds funds and persists the result.
func (s *Session) Deposit(ctx context.Context, amount decimal.Decimal) error {
	if err := s.acct.Deposit(amount); err != nil {
		return err
	}
	return s.Save(ctx)
}

// Withdraw removes funds and persists the result.
func (s *Session) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	if err := s.acct.Withdraw(amount); err != nil {
		return err
	}
	return s.Save(ctx)
}

// Purchase deducts an online purchase plus the tier fee and persists the
// result.
func (s *Session) Purchase(ctx context.Context, amount decimal.Decimal) error {
	if err := s.acct.Purchase(amount); err != nil {
		return err
	}
	return s.Save(ctx)
}

// Save persists the current in-memory state. Safe to call again after a
// failed mutation persist.
func (s *Session) Save(ctx context.Context) error {
	if err := s.svc.store.Save(ctx, s.acct.Record()); err != nil {
		return fmt.Errorf("persist account %s: %w", s.acct.Identifier(), err)
	}
	return nil
}

// Close releases the per-identifier lock. Idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.svc.release(s.acct.Identifier())
}
