package tender

import (
	"context"
	"time"
)

// Renderer navigates to one listing page and returns the rendered HTML.
type Renderer interface {
	Render(ctx context.Context, q SearchQuery) (string, error)
}

// SeenStore persists the bounded set of fingerprints already processed.
// Load returns an empty slice when no store exists or it is corrupt; that
// is a recoverable condition, not an error. Save rewrites the whole set,
// keeping only the most recently added entries once capacity is exceeded.
type SeenStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// Notifier delivers one message to one recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, message string) error
}

// Hasher computes the deduplication fingerprint of an offer's raw text.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
