package session

import (
	"context"
	"time"
)

// TokenStore remembers revoked token ids until they would have expired.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NopTokenStore never revokes anything. Used when Redis is not configured.
type NopTokenStore struct{}

func (NopTokenStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (NopTokenStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
