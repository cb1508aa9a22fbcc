package favsync

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeGateway is an in-memory Gateway with scriptable failures.
type fakeGateway struct {
	mu        sync.Mutex
	remote    []uint
	listErr   error
	addErr    error
	removeErr error
	listCalls int
	listGate  chan struct{} // when set, ListFavoriteIDs blocks until closed
}

func (g *fakeGateway) ListFavoriteIDs(ctx context.Context) ([]uint, error) {
	g.mu.Lock()
	g.listCalls++
	gate := g.listGate
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]uint(nil), g.remote...), nil
}

func (g *fakeGateway) AddFavorite(ctx context.Context, recipeID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.addErr != nil {
		return g.addErr
	}
	for _, id := range g.remote {
		if id == recipeID {
			return nil
		}
	}
	g.remote = append(g.remote, recipeID)
	return nil
}

func (g *fakeGateway) RemoveFavorite(ctx context.Context, recipeID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.removeErr != nil {
		return g.removeErr
	}
	out := g.remote[:0]
	for _, id := range g.remote {
		if id != recipeID {
			out = append(out, id)
		}
	}
	g.remote = out
	return nil
}

// countingCache wraps a Cache and counts Save calls.
type countingCache struct {
	Cache
	mu    sync.Mutex
	saves int
}

func (c *countingCache) Save(ids []uint) error {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
	return c.Cache.Save(ids)
}

func (c *countingCache) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func newTestSyncer(t *testing.T, gw Gateway) (*Syncer, *countingCache) {
	t.Helper()
	cache := &countingCache{Cache: NewFileCache(filepath.Join(t.TempDir(), "favorites.json"))}
	s := NewSyncer(gw, cache)
	s.now = func() time.Time { return t0 }
	return s, cache
}

func TestStartWithEmptyCacheReconcilesFromBackend(t *testing.T) {
	gw := &fakeGateway{remote: []uint{12, 45}}
	s, _ := newTestSyncer(t, gw)

	s.Start(context.Background())

	snap := s.Snapshot()
	if !snap.HasInitialized {
		t.Error("expected HasInitialized after start")
	}
	if !setEqual(snap.IDs, []uint{12, 45}) {
		t.Errorf("expected {12, 45}, got %v", snap.IDs)
	}
}

func TestStartSeedsFromCacheWhenBackendFails(t *testing.T) {
	cache := NewFileCache(filepath.Join(t.TempDir(), "favorites.json"))
	if err := cache.Save([]uint{5, 8}); err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{listErr: errors.New("backend down")}
	s := NewSyncer(gw, cache)
	s.now = func() time.Time { return t0 }

	s.Start(context.Background())

	snap := s.Snapshot()
	if !setEqual(snap.IDs, []uint{5, 8}) {
		t.Errorf("failed reconciliation must keep cached favorites, got %v", snap.IDs)
	}
	if !snap.HasInitialized {
		t.Error("cache seed must mark the set initialized")
	}
	if snap.IsLoading {
		t.Error("IsLoading must be cleared after a failed refresh")
	}
}

func TestToggleSymmetry(t *testing.T) {
	gw := &fakeGateway{remote: []uint{1}}
	s, _ := newTestSyncer(t, gw)
	s.Start(context.Background())

	before := s.Snapshot().IDs

	if err := s.Toggle(context.Background(), 42); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !s.IsFavorited(42) {
		t.Fatal("expected 42 favorited after first toggle")
	}
	if err := s.Toggle(context.Background(), 42); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if after := s.Snapshot().IDs; !setEqual(before, after) {
		t.Errorf("double toggle must restore membership: before %v, after %v", before, after)
	}
}

func TestToggleEmitsEvent(t *testing.T) {
	gw := &fakeGateway{remote: []uint{5}}
	s, _ := newTestSyncer(t, gw)
	s.Start(context.Background())

	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	if err := s.Toggle(context.Background(), 5); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	ev := events[0]
	if ev.RecipeID != 5 || ev.IsFavorited || ev.Count != 0 || len(ev.Favorites) != 0 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestToggleRollbackOnAddFailure(t *testing.T) {
	gw := &fakeGateway{addErr: errors.New("boom")}
	s, _ := newTestSyncer(t, gw)
	s.Start(context.Background())

	var events []Event
	defer s.Subscribe(func(ev Event) { events = append(events, ev) })()

	err := s.Toggle(context.Background(), 7)
	if err == nil {
		t.Fatal("expected toggle error")
	}
	if s.IsFavorited(7) {
		t.Error("failed add must roll back membership")
	}
	// Optimistic event plus rollback event
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].IsFavorited || events[1].IsFavorited {
		t.Errorf("expected add then remove, got %+v", events)
	}
}

func TestToggleRollbackOnRemoveFailure(t *testing.T) {
	gw := &fakeGateway{remote: []uint{5}, removeErr: errors.New("boom")}
	s, _ := newTestSyncer(t, gw)
	s.Start(context.Background())

	if err := s.Toggle(context.Background(), 5); err == nil {
		t.Fatal("expected toggle error")
	}
	if !s.IsFavorited(5) {
		t.Error("failed remove must restore membership")
	}
}

func TestRefreshReentrancyGuard(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{remote: []uint{1}, listGate: gate}
	s, _ := newTestSyncer(t, gw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Refresh(context.Background(), false)
	}()

	// Wait for the first refresh to reach the gateway
	for {
		gw.mu.Lock()
		calls := gw.listCalls
		gw.mu.Unlock()
		if calls == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Second non-forced refresh is skipped while the first is in flight
	if err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("guarded refresh: %v", err)
	}

	close(gate)
	<-done

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.listCalls != 1 {
		t.Errorf("expected a single gateway call, got %d", gw.listCalls)
	}
}

func TestRefreshNoOpSkipsPersistenceAndEvents(t *testing.T) {
	gw := &fakeGateway{remote: []uint{3, 7}}
	s, cache := newTestSyncer(t, gw)
	s.Start(context.Background())

	saves := cache.saveCount()
	var events []Event
	defer s.Subscribe(func(ev Event) { events = append(events, ev) })()

	// Same remote membership, different order
	gw.mu.Lock()
	gw.remote = []uint{7, 3}
	gw.mu.Unlock()

	if err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got := cache.saveCount(); got != saves {
		t.Errorf("set-equal sync must not persist: saves went %d -> %d", saves, got)
	}
	if len(events) != 0 {
		t.Errorf("set-equal sync must not emit events, got %+v", events)
	}
}

func TestExternalStorageChangeWins(t *testing.T) {
	gw := &fakeGateway{remote: []uint{1, 2}}
	s, cache := newTestSyncer(t, gw)
	s.Start(context.Background())

	saves := cache.saveCount()
	var events []Event
	defer s.Subscribe(func(ev Event) { events = append(events, ev) })()

	s.ApplyExternalStorageChange([]uint{3, 7, 9})

	snap := s.Snapshot()
	if !setEqual(snap.IDs, []uint{3, 7, 9}) {
		t.Errorf("expected {3, 7, 9}, got %v", snap.IDs)
	}
	if len(events) != 0 {
		t.Error("storage sync must not emit single-item events")
	}
	if cache.saveCount() != saves {
		t.Error("a peer's committed snapshot must not be written back")
	}
}

func TestInvalidatorCalledOnlyOnSuccess(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestSyncer(t, gw)
	s.Start(context.Background())

	calls := 0
	s.SetInvalidator(InvalidatorFunc(func(ctx context.Context) { calls++ }))

	if err := s.Toggle(context.Background(), 9); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one invalidation, got %d", calls)
	}

	gw.mu.Lock()
	gw.addErr = errors.New("boom")
	gw.mu.Unlock()

	_ = s.Toggle(context.Background(), 10)
	if calls != 1 {
		t.Errorf("failed toggle must not invalidate, got %d calls", calls)
	}
}

func TestToggleIgnoredWhileInflight(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestSyncer(t, gw)
	s.Start(context.Background())

	s.mu.Lock()
	s.inflight[4] = struct{}{}
	s.mu.Unlock()

	if err := s.Toggle(context.Background(), 4); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.IsFavorited(4) {
		t.Error("toggle must be ignored while a previous one is settling")
	}
}
