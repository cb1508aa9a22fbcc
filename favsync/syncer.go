package favsync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panpal/panpal/pkg/logger"
)

// Event is broadcast to subscribers after each discrete add or remove.
// Bulk reconciliation (initial seed, backend sync, storage sync) does
// not produce events.
type Event struct {
	RecipeID    uint      `json:"recipe_id"`
	IsFavorited bool      `json:"is_favorited"`
	Favorites   []uint    `json:"favorites"`
	Count       int       `json:"count"`
	Timestamp   time.Time `json:"timestamp"`
}

// Invalidator is notified after a favorite mutation is confirmed
// remotely, so externally cached user data (favorite counts on the
// profile, dashboards) can be dropped.
type Invalidator interface {
	InvalidateUser(ctx context.Context)
}

// InvalidatorFunc adapts a function to the Invalidator interface.
type InvalidatorFunc func(ctx context.Context)

func (f InvalidatorFunc) InvalidateUser(ctx context.Context) { f(ctx) }

// Syncer keeps the favorite set consistent across three sources: the
// in-memory state, the persistent cache, and the remote favorites
// service. Toggles apply optimistically and roll back the single
// affected recipe if the remote call fails.
type Syncer struct {
	mu       sync.Mutex
	state    *State
	cache    Cache
	gateway  Gateway
	inflight map[uint]struct{}

	refreshing atomic.Bool

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int

	invalidator Invalidator
	now         func() time.Time
}

// NewSyncer creates a syncer over the given gateway and cache.
func NewSyncer(gateway Gateway, cache Cache) *Syncer {
	return &Syncer{
		state:    NewState(),
		cache:    cache,
		gateway:  gateway,
		inflight: make(map[uint]struct{}),
		subs:     make(map[int]func(Event)),
		now:      time.Now,
	}
}

// SetInvalidator installs the external-cache invalidation hook.
func (s *Syncer) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

// Start seeds state synchronously from the persistent cache, then issues
// one remote refresh to reconcile. A failed refresh never clears the
// locally seeded favorites.
func (s *Syncer) Start(ctx context.Context) {
	if ids := s.cache.Load(); ids != nil {
		s.mu.Lock()
		s.applyLocked(s.state.Initialize(ids, s.now()), false)
		s.mu.Unlock()
	}

	if err := s.Refresh(ctx, false); err != nil {
		logger.Warn(ctx).Err(err).Msg("Initial favorites refresh failed, keeping cached set")
	}
}

// Refresh reconciles against the remote favorites list. At most one
// non-forced refresh is in flight at a time; a concurrent non-forced
// call is silently skipped. force bypasses the guard.
func (s *Syncer) Refresh(ctx context.Context, force bool) error {
	if !force {
		if !s.refreshing.CompareAndSwap(false, true) {
			return nil
		}
		defer s.refreshing.Store(false)
	}

	s.mu.Lock()
	s.applyLocked(s.state.SetLoading(true), false)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.applyLocked(s.state.SetLoading(false), false)
		s.mu.Unlock()
	}()

	ids, err := s.gateway.ListFavoriteIDs(ctx)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to fetch favorites from backend")
		return fmt.Errorf("failed to refresh favorites: %w", err)
	}

	s.mu.Lock()
	ev := s.applyLocked(s.state.SyncFromBackend(ids, s.now()), true)
	s.mu.Unlock()
	s.emit(ev)
	return nil
}

// Toggle flips the favorite membership of recipeID. The local mutation
// is applied immediately; if the remote call fails it is undone for this
// recipe only and the error is returned so the caller can surface it.
// A toggle for a recipe whose previous toggle has not settled yet is
// ignored.
func (s *Syncer) Toggle(ctx context.Context, recipeID uint) error {
	s.mu.Lock()
	if _, busy := s.inflight[recipeID]; busy {
		s.mu.Unlock()
		return nil
	}
	s.inflight[recipeID] = struct{}{}

	wasFavorited := s.state.Contains(recipeID)
	var next *State
	if wasFavorited {
		next = s.state.RemoveFavorite(recipeID, s.now())
	} else {
		next = s.state.AddFavorite(recipeID, s.now())
	}
	ev := s.applyLocked(next, true)
	s.mu.Unlock()
	s.emit(ev)

	var err error
	if wasFavorited {
		err = s.gateway.RemoveFavorite(ctx, recipeID)
	} else {
		err = s.gateway.AddFavorite(ctx, recipeID)
	}

	s.mu.Lock()
	delete(s.inflight, recipeID)
	if err != nil {
		// Undo the optimistic mutation for this recipe only
		var undo *State
		if wasFavorited {
			undo = s.state.AddFavorite(recipeID, s.now())
		} else {
			undo = s.state.RemoveFavorite(recipeID, s.now())
		}
		rollbackEv := s.applyLocked(undo, true)
		s.mu.Unlock()
		s.emit(rollbackEv)

		logger.Error(ctx).
			Err(err).
			Uint("recipe_id", recipeID).
			Bool("was_favorited", wasFavorited).
			Msg("Favorite toggle failed, rolled back")
		return fmt.Errorf("failed to update favorite: %w", err)
	}
	s.mu.Unlock()

	if s.invalidator != nil {
		s.invalidator.InvalidateUser(ctx)
	}
	return nil
}

// ApplyExternalStorageChange ingests a snapshot observed in the
// persistent cache that this syncer did not write, typically from a
// peer process sharing the cache. The peer's committed snapshot always
// wins over in-memory state, and is not written back.
func (s *Syncer) ApplyExternalStorageChange(ids []uint) {
	s.mu.Lock()
	s.applyLocked(s.state.SyncFromStorage(ids), false)
	s.mu.Unlock()
}

// Subscribe registers a callback for favorite change events. The
// returned function unsubscribes it.
func (s *Syncer) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// IsFavorited reports current membership of recipeID.
func (s *Syncer) IsFavorited(recipeID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Contains(recipeID)
}

// Snapshot returns a copy of the current state for read-only use.
func (s *Syncer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := *s.state
	snap.IDs = append([]uint(nil), s.state.IDs...)
	return snap
}

// applyLocked installs a state transition and performs its side effects:
// a synchronous cache write when membership changed, and an event when
// the transition recorded a new LastAction. A transition returning the same
// reference does nothing. Caller holds s.mu; the returned event must be
// emitted after unlocking.
func (s *Syncer) applyLocked(next *State, persist bool) *Event {
	prev := s.state
	if next == prev {
		return nil
	}
	s.state = next

	if persist && next.HasInitialized && !setEqual(prev.IDs, next.IDs) {
		if err := s.cache.Save(next.IDs); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to persist favorites cache")
		}
	}

	if next.LastAction == nil || next.LastAction == prev.LastAction {
		return nil
	}
	return &Event{
		RecipeID:    next.LastAction.RecipeID,
		IsFavorited: next.LastAction.Kind == ActionAdd,
		Favorites:   append([]uint(nil), next.IDs...),
		Count:       len(next.IDs),
		Timestamp:   s.now(),
	}
}

func (s *Syncer) emit(ev *Event) {
	if ev == nil {
		return
	}
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(*ev)
	}
}
