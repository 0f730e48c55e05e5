package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Schema creates the backing table. Applied at startup when the postgres
// driver is selected.
const Schema = `
CREATE TABLE IF NOT EXISTS customer_records (
    identifier TEXT PRIMARY KEY,
    secret     TEXT NOT NULL,
    balance    NUMERIC NOT NULL CHECK (balance >= 0),
    kind       TEXT NOT NULL
)`

// PostgresStore persists account records in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres builds a store backed by a pgx pool.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the table definition.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure customer_records schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, identifier string) (Record, error) {
	row := s.db.QueryRow(ctx, `SELECT identifier, secret, balance::text, kind
        FROM customer_records WHERE identifier = $1`, identifier)

	var rec Record
	var balanceText string
	if err := row.Scan(&rec.Identifier, &rec.Secret, &balanceText, &rec.Kind); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("load record %s: %w", identifier, err)
	}

	balance, err := decimal.NewFromString(balanceText)
	if err != nil {
		return Record{}, fmt.Errorf("malformed balance for %s: %w", identifier, err)
	}
	rec.Balance = balance
	return rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.Exec(ctx, `INSERT INTO customer_records (identifier, secret, balance, kind)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (identifier) DO UPDATE SET secret = $2, balance = $3, kind = $4`,
		rec.Identifier, rec.Secret, rec.Balance.String(), rec.Kind)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.Identifier, err)
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer_records WHERE identifier = $1)`,
		identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check record %s: %w", identifier, err)
	}
	return exists, nil
}

func (s *PostgresStore) Delete(ctx context.Context, identifier string) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM customer_records WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", identifier, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
