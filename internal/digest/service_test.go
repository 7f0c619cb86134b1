package digest_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/sixtyseconds/internal/digest"
	"github.com/i474232898/sixtyseconds/internal/store"
)

type fakeSource struct {
	mu      sync.Mutex
	results []fakeResult
	calls   int

	inFlight atomic.Int32
	overlap  atomic.Bool
	delay    time.Duration
}

type fakeResult struct {
	digest digest.Digest
	err    error
	panic  bool
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context) (digest.Digest, error) {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.inFlight.Add(-1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.results[f.calls%len(f.results)]
	f.calls++
	if r.panic {
		panic("upstream exploded")
	}
	return r.digest, r.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []digest.Message
}

func (f *fakeNotifier) Notify(ctx context.Context, msg digest.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func sampleDigest() digest.Digest {
	return digest.Digest{
		Date:  "D",
		Tip:   "T",
		Cover: "C",
		News:  []string{"a", "b", "c", "d", "e", "f"},
		Link:  "L",
	}
}

func TestFetchAndStoreSuccess(t *testing.T) {
	st := store.NewMemoryStore()
	src := &fakeSource{results: []fakeResult{{digest: sampleDigest()}}}
	svc := digest.NewService(st, src, nil)

	if !svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, "")) {
		t.Fatalf("expected fetch to succeed")
	}

	snap, ok := svc.Latest()
	if !ok {
		t.Fatalf("expected a cached digest")
	}
	if !reflect.DeepEqual(snap.Digest, sampleDigest()) {
		t.Fatalf("expected %+v, got %+v", sampleDigest(), snap.Digest)
	}
	if snap.UpdatedAt.IsZero() || snap.UpdatedAt.Location() != time.UTC {
		t.Fatalf("expected a UTC update timestamp, got %v", snap.UpdatedAt)
	}
}

func TestFetchAndStoreFailureKeepsCache(t *testing.T) {
	failures := []fakeResult{
		{err: errors.New("network down")},
		{err: errors.New("unexpected status code: 502")},
		{err: errors.New("unexpected envelope code: 500")},
		{panic: true},
	}

	for _, f := range failures {
		st := store.NewMemoryStore()
		src := &fakeSource{results: []fakeResult{{digest: sampleDigest()}, f}}
		svc := digest.NewService(st, src, nil)

		if !svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, "")) {
			t.Fatalf("expected first fetch to succeed")
		}
		before, _ := svc.Latest()

		if svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, "")) {
			t.Fatalf("expected second fetch to fail")
		}
		after, ok := svc.Latest()
		if !ok {
			t.Fatalf("cache must not revert to empty after a failed fetch")
		}
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("cache changed after failed fetch: before %+v, after %+v", before, after)
		}
	}
}

func TestFetchAndStoreFailureWithoutCache(t *testing.T) {
	svc := digest.NewService(store.NewMemoryStore(), &fakeSource{results: []fakeResult{{err: errors.New("boom")}}}, nil)

	if svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, "")) {
		t.Fatalf("expected fetch to fail")
	}
	if _, ok := svc.Latest(); ok {
		t.Fatalf("expected no cached digest")
	}
}

func TestFetchAndStoreNotifies(t *testing.T) {
	n := &fakeNotifier{}
	svc := digest.NewService(store.NewMemoryStore(), &fakeSource{results: []fakeResult{{digest: sampleDigest()}}}, n)

	svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, ""))
	if n.count() != 0 {
		t.Fatalf("expected no notification while notify is off")
	}

	svc.SetNotify(true)
	svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, ""))
	if n.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", n.count())
	}
	if n.sent[0].Title != digest.Title || n.sent[0].Type != digest.MessageTypeSite {
		t.Fatalf("unexpected message header: %+v", n.sent[0])
	}
}

func TestNotifyWithoutDigestIsNoop(t *testing.T) {
	n := &fakeNotifier{}
	svc := digest.NewService(store.NewMemoryStore(), &fakeSource{results: []fakeResult{{err: errors.New("boom")}}}, n)

	if svc.Notify(context.Background()) {
		t.Fatalf("expected notify to report nothing sent")
	}
	if n.count() != 0 {
		t.Fatalf("expected no notification, got %d", n.count())
	}
}

func TestHandleManualTriggerSendsOnce(t *testing.T) {
	n := &fakeNotifier{}
	src := &fakeSource{results: []fakeResult{{digest: sampleDigest()}}}
	svc := digest.NewService(store.NewMemoryStore(), src, n)
	svc.SetNotify(true)

	if !svc.Handle(context.Background(), digest.NewTrigger(digest.TriggerCommand, "/60s")) {
		t.Fatalf("expected handle to succeed")
	}
	if n.count() != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", n.count())
	}
}

func TestHandleManualTriggerFallsBackToCache(t *testing.T) {
	n := &fakeNotifier{}
	src := &fakeSource{results: []fakeResult{{digest: sampleDigest()}, {err: errors.New("boom")}}}
	svc := digest.NewService(store.NewMemoryStore(), src, n)

	svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, ""))
	svc.SetNotify(true)

	if svc.Handle(context.Background(), digest.NewTrigger(digest.TriggerEvent, "PluginAction")) {
		t.Fatalf("expected handle to report the failed fetch")
	}
	if n.count() != 1 {
		t.Fatalf("expected cached digest to be sent, got %d notifications", n.count())
	}
	if !strings.Contains(n.sent[0].Text, "1. a") {
		t.Fatalf("expected cached digest content, got %q", n.sent[0].Text)
	}
}

func TestHandleScheduledFailureDoesNotNotify(t *testing.T) {
	n := &fakeNotifier{}
	src := &fakeSource{results: []fakeResult{{digest: sampleDigest()}, {err: errors.New("boom")}}}
	svc := digest.NewService(store.NewMemoryStore(), src, n)

	svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, ""))
	svc.SetNotify(true)

	svc.Handle(context.Background(), digest.NewTrigger(digest.TriggerScheduled, ""))
	if n.count() != 0 {
		t.Fatalf("expected no notification for a failed scheduled run, got %d", n.count())
	}
}

func TestFetchAndStoreSerialized(t *testing.T) {
	src := &fakeSource{results: []fakeResult{{digest: sampleDigest()}}, delay: 5 * time.Millisecond}
	svc := digest.NewService(store.NewMemoryStore(), src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerEvent, ""))
		}()
	}
	wg.Wait()

	if src.overlap.Load() {
		t.Fatalf("expected fetches to be serialized")
	}
}

func TestLatestReturnsCopy(t *testing.T) {
	svc := digest.NewService(store.NewMemoryStore(), &fakeSource{results: []fakeResult{{digest: sampleDigest()}}}, nil)
	svc.FetchAndStore(context.Background(), digest.NewTrigger(digest.TriggerScheduled, ""))

	snap, _ := svc.Latest()
	snap.Digest.News[0] = "mutated"

	again, _ := svc.Latest()
	if again.Digest.News[0] != "a" {
		t.Fatalf("cached digest was mutated through a returned snapshot")
	}
}
