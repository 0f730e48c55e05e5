package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const redisKeyPrefix = "account:v1:"

// redisRecord is the JSON wire form of a Record. Balance travels as decimal
// text so round trips stay exact.
type redisRecord struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
	Balance    string `json:"balance"`
	Kind       string `json:"kind"`
}

// RedisStore persists account records as JSON values in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedis builds a store backed by a Redis client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(identifier string) string {
	return redisKeyPrefix + identifier
}

func (s *RedisStore) Load(ctx context.Context, identifier string) (Record, error) {
	raw, err := s.client.Get(ctx, redisKey(identifier)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("load record %s: %w", identifier, err)
	}

	var wire redisRecord
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Record{}, fmt.Errorf("malformed record for %s: %w", identifier, err)
	}
	balance, err := decimal.NewFromString(wire.Balance)
	if err != nil {
		return Record{}, fmt.Errorf("malformed balance for %s: %w", identifier, err)
	}

	return Record{
		Identifier: wire.Identifier,
		Secret:     wire.Secret,
		Balance:    balance,
		Kind:       wire.Kind,
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(redisRecord{
		Identifier: rec.Identifier,
		Secret:     rec.Secret,
		Balance:    rec.Balance.String(),
		Kind:       rec.Kind,
	})
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.Identifier, err)
	}
	if err := s.client.Set(ctx, redisKey(rec.Identifier), payload, 0).Err(); err != nil {
		return fmt.Errorf("save record %s: %w", rec.Identifier, err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, identifier string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(identifier)).Result()
	if err != nil {
		return false, fmt.Errorf("check record %s: %w", identifier, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, identifier string) error {
	n, err := s.client.Del(ctx, redisKey(identifier)).Result()
	if err != nil {
		return fmt.Errorf("delete record %s: %w", identifier, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
