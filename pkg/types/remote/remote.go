package remote

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// Document is the remote snapshot of the whole asset list.
type Document struct {
	Assets      json.RawMessage `json:"assets"`
	Version     int64           `json:"version"`
	Origin      string          `json:"origin"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// RemoteStore is a shared document slot mirrored across devices.
type RemoteStore interface {
	// Load returns nil, nil when nothing was stored yet.
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc Document) error
	// Watch delivers remote documents until ctx is done.
	Watch(ctx context.Context, fn func(Document)) error
}
