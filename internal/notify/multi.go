package notify

import (
	"context"
	"errors"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// Multi fans a message out to every notifier. Each one is tried even if another fails;
// the returned error joins all failures.
type Multi []digest.Notifier

func (m Multi) Notify(ctx context.Context, msg digest.Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
