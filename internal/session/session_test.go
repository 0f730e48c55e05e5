package session

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cedarbank/cedar_bank/internal/account"
	"github.com/cedarbank/cedar_bank/internal/directory"
	"github.com/cedarbank/cedar_bank/internal/store"
	"github.com/cedarbank/cedar_bank/internal/tier"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccount(t *testing.T, st store.Store) {
	t.Helper()
	dir := directory.New(st, account.PlainScheme{}, directory.DefaultOpeningBalance)
	if err := dir.Create(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func TestLogin(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st)
	svc := NewService(st, account.PlainScheme{})
	ctx := context.Background()

	if _, err := svc.Login(ctx, "ghost", "pw"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer sess.Close()

	if !sess.Balance().Equal(dec("100.0")) {
		t.Fatalf("balance = %s, want 100", sess.Balance())
	}
	if sess.Tier() != tier.Silver {
		t.Fatalf("tier = %s, want Silver", sess.Tier())
	}
}

func TestLoginRejectsForeignRecordKinds(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	rec := store.Record{Identifier: "ops", Secret: "pw", Balance: dec("100"), Kind: "operator"}
	if err := st.Save(ctx, rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewService(st, account.PlainScheme{})
	if _, err := svc.Login(ctx, "ops", "pw"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-customer record, got %v", err)
	}
}

func TestSecondLoginIsRejectedWhileHeld(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st)
	svc := NewService(st, account.PlainScheme{})
	ctx := context.Background()

	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "pw"); !errors.Is(err, ErrAccountBusy) {
		t.Fatalf("expected ErrAccountBusy, got %v", err)
	}

	sess.Close()
	sess.Close() // idempotent

	again, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login after close: %v", err)
	}
	again.Close()
}

func TestMutationsPersist(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st)
	svc := NewService(st, account.PlainScheme{})
	ctx := context.Background()

	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := sess.Deposit(ctx, dec("9950")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := sess.Purchase(ctx, dec("60")); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	sess.Close()

	rec, err := st.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !rec.Balance.Equal(dec("9980")) {
		t.Fatalf("persisted balance = %s, want 9980", rec.Balance)
	}
}

func TestFailedBusinessRuleDoesNotPersist(t *testing.T) {
	st := store.NewMemory()
	seedAccount(t, st)
	svc := NewService(st, account.PlainScheme{})
	ctx := context.Background()

	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer sess.Close()

	if err := sess.Withdraw(ctx, dec("500")); !errors.Is(err, account.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	rec, err := st.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !rec.Balance.Equal(dec("100.0")) {
		t.Fatalf("persisted balance = %s, want untouched 100", rec.Balance)
	}
}

// flakyStore fails a configurable number of saves, then recovers.
type flakyStore struct {
	store.Store
	failures int
}

func (s *flakyStore) Save(ctx context.Context, rec store.Record) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, rec)
}

func TestFailedSaveKeepsMemoryStateAndRetries(t *testing.T) {
	mem := store.NewMemory()
	seedAccount(t, mem)
	flaky := &flakyStore{Store: mem, failures: 1}
	svc := NewService(flaky, account.PlainScheme{})
	ctx := context.Background()

	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer sess.Close()

	if err := sess.Deposit(ctx, dec("50")); err == nil {
		t.Fatal("expected save failure")
	}

	// the mutation already happened in memory; the store still has the old value
	if !sess.Balance().Equal(dec("150.0")) {
		t.Fatalf("in-memory balance = %s, want 150", sess.Balance())
	}
	rec, err := mem.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !rec.Balance.Equal(dec("100.0")) {
		t.Fatalf("stored balance = %s, want 100", rec.Balance)
	}

	// retrying the persist reconciles the store
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	rec, err = mem.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load after retry: %v", err)
	}
	if !rec.Balance.Equal(dec("150.0")) {
		t.Fatalf("stored balance = %s, want 150", rec.Balance)
	}
}
