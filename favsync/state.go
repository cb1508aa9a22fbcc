package favsync

import (
	"sort"
	"time"
)

// ActionKind discriminates the last discrete favorites mutation.
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
)

// LastAction records the most recent add or remove. It only drives
// outbound notifications and is not part of canonical membership.
type LastAction struct {
	Kind     ActionKind
	RecipeID uint
}

// State is the in-memory favorite set for the current user.
//
// Transitions are pure: each returns the next state and never mutates
// the receiver. A transition that changes nothing returns the receiver
// itself, so callers can detect no-ops by pointer comparison and skip
// persistence and notification work.
type State struct {
	IDs            []uint
	IsLoading      bool
	LastSyncTime   time.Time
	HasInitialized bool
	LastAction     *LastAction
}

// NewState returns the empty pre-initialization state.
func NewState() *State {
	return &State{}
}

// Contains reports whether recipeID is currently a favorite.
func (s *State) Contains(recipeID uint) bool {
	for _, id := range s.IDs {
		if id == recipeID {
			return true
		}
	}
	return false
}

// Count returns the number of favorites.
func (s *State) Count() int {
	return len(s.IDs)
}

// Initialize replaces membership wholesale and marks the set as populated.
func (s *State) Initialize(ids []uint, now time.Time) *State {
	next := *s
	next.IDs = dedupe(ids)
	next.HasInitialized = true
	next.LastSyncTime = now
	next.LastAction = nil
	return &next
}

// SetLoading flips the loading flag. Membership is untouched.
func (s *State) SetLoading(loading bool) *State {
	if s.IsLoading == loading {
		return s
	}
	next := *s
	next.IsLoading = loading
	return &next
}

// AddFavorite inserts recipeID. Adding a present ID is a no-op and
// returns the same state reference.
func (s *State) AddFavorite(recipeID uint, now time.Time) *State {
	if s.Contains(recipeID) {
		return s
	}
	next := *s
	next.IDs = append(append([]uint(nil), s.IDs...), recipeID)
	next.LastSyncTime = now
	next.LastAction = &LastAction{Kind: ActionAdd, RecipeID: recipeID}
	return &next
}

// RemoveFavorite deletes recipeID. Removing an absent ID is a no-op and
// returns the same state reference.
func (s *State) RemoveFavorite(recipeID uint, now time.Time) *State {
	if !s.Contains(recipeID) {
		return s
	}
	ids := make([]uint, 0, len(s.IDs)-1)
	for _, id := range s.IDs {
		if id != recipeID {
			ids = append(ids, id)
		}
	}
	next := *s
	next.IDs = ids
	next.LastSyncTime = now
	next.LastAction = &LastAction{Kind: ActionRemove, RecipeID: recipeID}
	return &next
}

// SyncFromBackend reconciles membership against the authoritative remote
// list. If the incoming list is set-equal to current membership the same
// state reference is returned, so no downstream work is triggered. A bulk
// sync is not an individual add or remove, so LastAction is cleared.
func (s *State) SyncFromBackend(ids []uint, now time.Time) *State {
	incoming := dedupe(ids)
	if setEqual(s.IDs, incoming) {
		return s
	}
	next := *s
	next.IDs = incoming
	next.HasInitialized = true
	next.LastSyncTime = now
	next.LastAction = nil
	return &next
}

// SyncFromStorage unconditionally replaces membership with a peer's
// already-committed snapshot. It always wins over in-memory state.
func (s *State) SyncFromStorage(ids []uint) *State {
	next := *s
	next.IDs = dedupe(ids)
	next.HasInitialized = true
	next.LastAction = nil
	return &next
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func setEqual(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]uint(nil), a...)
	bs := append([]uint(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
