// Package session keeps each visitor's lead form between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/bridgei2p/leadportal/internal/leadform"
)

// DefaultTTL is how long an idle form is kept.
const DefaultTTL = 30 * time.Minute

// ErrNotFound is returned by Load when no form is stored under the id.
var ErrNotFound = errors.New("session: not found")

// Store persists form snapshots by session id.
type Store interface {
	Load(ctx context.Context, id string) (leadform.Snapshot, error)
	Save(ctx context.Context, id string, snap leadform.Snapshot) error
	Delete(ctx context.Context, id string) error
}
