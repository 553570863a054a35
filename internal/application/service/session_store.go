package service

import (
	"context"
	"time"
)

// SessionStore keeps the signed-in token per client device. Load returns "" when none is stored.
type SessionStore interface {
	Load(ctx context.Context, deviceID string) (string, error)
	Save(ctx context.Context, deviceID, token string, ttl time.Duration) error
	Clear(ctx context.Context, deviceID string) error
}
