package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// fileExt matches the legacy per-customer file naming.
const fileExt = ".txt"

// FileStore keeps one flat file per identifier under a data directory, in
// the legacy four-line format: identifier, sealed secret, balance as decimal
// text, and the literal record kind. Writes go through a temp file and
// rename so a crash mid-write cannot leave a corrupt record.
type FileStore struct {
	dir string
}

// NewFile creates the data directory if needed and returns a file store.
func NewFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(identifier string) (string, error) {
	if identifier == "" || identifier != filepath.Base(identifier) || strings.HasPrefix(identifier, ".") {
		return "", fmt.Errorf("unsafe identifier %q", identifier)
	}
	return filepath.Join(s.dir, identifier+fileExt), nil
}

func (s *FileStore) Load(_ context.Context, identifier string) (Record, error) {
	path, err := s.path(identifier)
	if err != nil {
		return Record{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("read account file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 4 {
		return Record{}, fmt.Errorf("malformed record for %s: %d fields", identifier, len(lines))
	}

	balance, err := decimal.NewFromString(lines[2])
	if err != nil {
		return Record{}, fmt.Errorf("malformed balance for %s: %w", identifier, err)
	}

	return Record{
		Identifier: lines[0],
		Secret:     lines[1],
		Balance:    balance,
		Kind:       lines[3],
	}, nil
}

func (s *FileStore) Save(_ context.Context, rec Record) error {
	path, err := s.path(rec.Identifier)
	if err != nil {
		return err
	}

	payload := strings.Join([]string{rec.Identifier, rec.Secret, rec.Balance.String(), rec.Kind}, "\n")

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(payload), 0o600); err != nil {
		return fmt.Errorf("write account file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace account file: %w", err)
	}
	return nil
}

func (s *FileStore) Exists(_ context.Context, identifier string) (bool, error) {
	path, err := s.path(identifier)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat account file: %w", err)
	}
	return true, nil
}

func (s *FileStore) Delete(_ context.Context, identifier string) error {
	path, err := s.path(identifier)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove account file: %w", err)
	}
	return nil
}
