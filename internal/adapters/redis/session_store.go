package redis

// Package redis provides the Redis-backed session record store.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/wateralmanak/facility-console/internal/domain/auth"
	"github.com/wateralmanak/facility-console/internal/ports"
)

// SessionStore persists session records in Redis. Record TTL follows the
// credential expiry, so the store never hands back a session whose bearer
// token is already stale.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store with the default key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "session:"}
}

// NewSessionStoreWithPrefix creates a session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

// Save stores the record with a TTL derived from its expiry.
func (s *SessionStore) Save(ctx context.Context, rec domainauth.Record) error {
	if rec.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.prefix+rec.ID, data, ttl).Err()
}

// Get retrieves a record by ID, returning ports.ErrSessionNotFound when the
// record is absent or already expired.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Record, error) {
	if id == "" {
		return domainauth.Record{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Record{}, ports.ErrSessionNotFound
		}
		return domainauth.Record{}, fmt.Errorf("redis get: %w", err)
	}

	var rec domainauth.Record
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return domainauth.Record{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have evicted expired records already, but expiry is
	// re-checked here so a clock-skewed write can't resurrect a session.
	if rec.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Record{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Record{}, ports.ErrSessionNotFound
	}

	return rec, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}
