// Package account implements the customer entity: balance, sealed
// credential, and the tier kept consistent with the balance after every
// mutation. Operations are check-then-mutate, so a failing call leaves the
// account exactly as it was.
package account

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cedarbank/cedar_bank/internal/store"
	"github.com/cedarbank/cedar_bank/internal/tier"
)

var (
	// ErrInvalidAmount rejects non-positive amounts and purchases below
	// the minimum.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds rejects withdrawals and purchases the balance
	// cannot cover (including the purchase fee).
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// minPurchase is the smallest accepted online purchase.
var minPurchase = decimal.NewFromInt(50)

// Account is a customer's balance, sealed secret, and derived tier.
// Invariants: balance >= 0 and tier == tier.For(balance) at all times.
type Account struct {
	identifier string
	secret     string
	balance    decimal.Decimal
	tier       tier.Tier
}

// New builds an account with the given opening balance. The secret must
// already be sealed by the configured scheme.
func New(identifier, sealedSecret string, balance decimal.Decimal) (*Account, error) {
	if balance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return &Account{
		identifier: identifier,
		secret:     sealedSecret,
		balance:    balance,
		tier:       tier.For(balance),
	}, nil
}

// FromRecord rebuilds an account from its persisted form.
func FromRecord(rec store.Record) (*Account, error) {
	return New(rec.Identifier, rec.Secret, rec.Balance)
}

// Record returns the persisted form of the account.
func (a *Account) Record() store.Record {
	return store.Record{
		Identifier: a.identifier,
		Secret:     a.secret,
		Balance:    a.balance,
		Kind:       store.KindCustomer,
	}
}

func (a *Account) Identifier() string { return a.identifier }

// SealedSecret returns the stored credential in its sealed form.
func (a *Account) SealedSecret() string { return a.secret }

func (a *Account) Balance() decimal.Decimal { return a.balance }

func (a *Account) Tier() tier.Tier { return a.tier }

// Deposit adds amount to the balance. Amount must be strictly positive;
// there is no upper bound.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	a.tier = tier.For(a.balance)
	return nil
}

// Withdraw removes amount from the balance. Amount must be positive and no
// greater than the current balance.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	a.tier = tier.For(a.balance)
	return nil
}

// Purchase deducts an online purchase plus the fee owed at the current
// tier. The fee is fixed before the deduction, so a purchase that drops the
// account a tier still pays the pre-transaction fee.
func (a *Account) Purchase(amount decimal.Decimal) error {
	if amount.LessThan(minPurchase) {
		return ErrInvalidAmount
	}
	total := amount.Add(a.tier.PurchaseFee())
	if total.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(total)
	a.tier = tier.For(a.balance)
	return nil
}
