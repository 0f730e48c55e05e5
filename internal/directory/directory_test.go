package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/cedarbank/cedar_bank/internal/account"
	"github.com/cedarbank/cedar_bank/internal/store"
	"github.com/cedarbank/cedar_bank/internal/tier"
)

func TestCreateOpensSilverAccount(t *testing.T) {
	st := store.NewMemory()
	dir := New(st, account.PlainScheme{}, DefaultOpeningBalance)
	ctx := context.Background()

	if err := dir.Create(ctx, "alice", "pw"); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := st.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Kind != store.KindCustomer {
		t.Fatalf("kind = %q, want %q", rec.Kind, store.KindCustomer)
	}
	if !rec.Balance.Equal(DefaultOpeningBalance) {
		t.Fatalf("balance = %s, want %s", rec.Balance, DefaultOpeningBalance)
	}

	acct, err := account.FromRecord(rec)
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if acct.Tier() != tier.Silver {
		t.Fatalf("tier = %s, want Silver", acct.Tier())
	}
}

func TestCreateDuplicateKeepsFirstSecret(t *testing.T) {
	st := store.NewMemory()
	dir := New(st, account.PlainScheme{}, DefaultOpeningBalance)
	ctx := context.Background()

	if err := dir.Create(ctx, "alice", "pw"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := dir.Create(ctx, "alice", "pw2"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	rec, err := st.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Secret != "pw" {
		t.Fatalf("secret = %q, want original %q", rec.Secret, "pw")
	}
}

func TestCreateRejectsEmptyIdentifier(t *testing.T) {
	dir := New(store.NewMemory(), account.PlainScheme{}, DefaultOpeningBalance)

	if err := dir.Create(context.Background(), "", "pw"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	st := store.NewMemory()
	dir := New(st, account.PlainScheme{}, DefaultOpeningBalance)
	ctx := context.Background()

	if err := dir.Remove(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := dir.Create(ctx, "alice", "pw"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := dir.Remove(ctx, "alice"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	exists, err := st.Exists(ctx, "alice")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("record still present after remove")
	}
}

func TestRemoveIgnoresForeignRecordKinds(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	rec := store.Record{Identifier: "ops", Secret: "x", Balance: DefaultOpeningBalance, Kind: "operator"}
	if err := st.Save(ctx, rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dir := New(st, account.PlainScheme{}, DefaultOpeningBalance)
	if err := dir.Remove(ctx, "ops"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-customer record, got %v", err)
	}
}
