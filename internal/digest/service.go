package digest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service fetches the digest from its source, caches it, and sends notifications.
type Service struct {
	store    Store
	source   Source
	notifier Notifier

	notify atomic.Bool

	// fetchMu serializes fetches so scheduled, command and event triggers never interleave.
	fetchMu sync.Mutex

	now func() time.Time
}

// NewService creates a new Service. notifier may be nil, in which case nothing is sent.
func NewService(store Store, source Source, notifier Notifier) *Service {
	return &Service{
		store:    store,
		source:   source,
		notifier: notifier,
		now:      time.Now,
	}
}

// SetNotify toggles notifications after successful fetches.
func (s *Service) SetNotify(enabled bool) {
	s.notify.Store(enabled)
}

// NotifyEnabled reports the current notify setting.
func (s *Service) NotifyEnabled() bool {
	return s.notify.Load()
}

// FetchAndStore fetches the digest once and replaces the cached snapshot on success.
// Failures are logged and leave the cache untouched; the error never escapes.
// A notification is sent after a successful fetch when notify is enabled.
func (s *Service) FetchAndStore(ctx context.Context, trigger Trigger) bool {
	ok, _ := s.fetchAndStore(ctx, trigger)
	return ok
}

// fetchAndStore also reports whether a notification was sent so Handle can avoid a duplicate.
func (s *Service) fetchAndStore(ctx context.Context, trigger Trigger) (ok bool, notified bool) {
	logger := log.WithFields(log.Fields{
		"component": "digest",
		"trigger":   trigger.Kind.String(),
		"run":       trigger.ID,
	})

	if s.source == nil {
		logger.Error("no digest source configured")
		return false, false
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("fetch from %s panicked: %v", s.source.Name(), r)
			ok, notified = false, false
		}
	}()

	logger.Infof("fetching digest from %s", s.source.Name())

	d, err := s.source.Fetch(ctx)
	if err != nil {
		logger.WithError(err).Errorf("fetch from %s failed; keeping last good digest if any", s.source.Name())
		return false, false
	}

	s.store.Save(Snapshot{
		Digest:    d.clone(),
		UpdatedAt: s.now().UTC(),
	})
	logger.WithField("date", d.Date).Infof("digest updated with %d news items", len(d.News))

	if s.notify.Load() {
		notified = s.Notify(ctx)
	}
	return true, notified
}

// Notify sends the cached digest through the notifier. It is a no-op when nothing is cached.
// It reports whether a message was handed to the notifier.
func (s *Service) Notify(ctx context.Context) bool {
	snap, ok := s.store.Latest()
	if !ok {
		return false
	}
	if s.notifier == nil {
		log.WithField("component", "digest").Warn("notify requested but no notifier configured")
		return false
	}

	msg := FormatMessage(snap.Digest)
	if err := s.notifier.Notify(ctx, msg); err != nil {
		log.WithField("component", "digest").WithError(err).Error("notification delivery failed")
	}
	return true
}

// Handle routes any trigger kind to the fetch operation.
// Manual triggers fall back to the cached digest when the fetch fails, so whoever
// asked still gets an answer. At most one notification is sent per trigger.
func (s *Service) Handle(ctx context.Context, trigger Trigger) bool {
	ok, notified := s.fetchAndStore(ctx, trigger)
	if !ok && !notified && trigger.Kind.Manual() && s.notify.Load() {
		if s.Notify(ctx) {
			log.WithFields(log.Fields{
				"component": "digest",
				"run":       trigger.ID,
			}).Info("fetch failed; sent cached digest instead")
		}
	}
	return ok
}

// Latest returns the cached snapshot, if any.
func (s *Service) Latest() (Snapshot, bool) {
	snap, ok := s.store.Latest()
	if !ok {
		return Snapshot{}, false
	}
	snap.Digest = snap.Digest.clone()
	return snap, true
}

