package digest

import (
	"context"
)

// Source abstracts the upstream digest API.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Digest, error)
}

// Store is the contract the in-memory state cell must satisfy.
// Save replaces the cached snapshot wholesale; Latest reports false until the first Save.
type Store interface {
	Save(snapshot Snapshot)
	Latest() (Snapshot, bool)
}

// Notifier delivers a formatted message. Delivery guarantees belong to the implementation.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
