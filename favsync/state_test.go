package favsync

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestInitializeReplacesMembership(t *testing.T) {
	s := NewState().AddFavorite(1, t0)
	next := s.Initialize([]uint{12, 45}, t0.Add(time.Second))

	if !next.HasInitialized {
		t.Error("expected HasInitialized after Initialize")
	}
	if next.LastAction != nil {
		t.Error("Initialize must clear LastAction")
	}
	if !setEqual(next.IDs, []uint{12, 45}) {
		t.Errorf("expected {12, 45}, got %v", next.IDs)
	}
	if !next.LastSyncTime.Equal(t0.Add(time.Second)) {
		t.Errorf("expected stamped sync time, got %v", next.LastSyncTime)
	}
}

func TestInitializeDeduplicates(t *testing.T) {
	next := NewState().Initialize([]uint{7, 7, 3, 7}, t0)
	if !setEqual(next.IDs, []uint{3, 7}) {
		t.Errorf("expected {3, 7}, got %v", next.IDs)
	}
}

func TestAddFavorite(t *testing.T) {
	s := NewState().Initialize(nil, t0)
	next := s.AddFavorite(5, t0.Add(time.Second))

	if !next.Contains(5) {
		t.Error("expected 5 to be a favorite")
	}
	if next.LastAction == nil || next.LastAction.Kind != ActionAdd || next.LastAction.RecipeID != 5 {
		t.Errorf("expected add LastAction for 5, got %+v", next.LastAction)
	}
}

func TestAddFavoritePresentIsNoOp(t *testing.T) {
	s := NewState().Initialize([]uint{5}, t0)
	next := s.AddFavorite(5, t0.Add(time.Hour))

	if next != s {
		t.Error("adding a present ID must return the same state reference")
	}
	if !next.LastSyncTime.Equal(t0) {
		t.Error("no-op add must not stamp LastSyncTime")
	}
}

func TestRemoveFavorite(t *testing.T) {
	s := NewState().Initialize([]uint{5, 9}, t0)
	next := s.RemoveFavorite(5, t0.Add(time.Second))

	if next.Contains(5) {
		t.Error("expected 5 to be removed")
	}
	if !next.Contains(9) {
		t.Error("removal must not affect other IDs")
	}
	if next.LastAction == nil || next.LastAction.Kind != ActionRemove {
		t.Errorf("expected remove LastAction, got %+v", next.LastAction)
	}
}

func TestRemoveFavoriteAbsentIsNoOp(t *testing.T) {
	s := NewState().Initialize([]uint{5}, t0)
	if next := s.RemoveFavorite(99, t0.Add(time.Hour)); next != s {
		t.Error("removing an absent ID must return the same state reference")
	}
}

func TestSyncFromBackendSetEqualIsNoOp(t *testing.T) {
	s := NewState().Initialize([]uint{3, 7, 9}, t0)

	// Order must not matter
	if next := s.SyncFromBackend([]uint{9, 3, 7}, t0.Add(time.Hour)); next != s {
		t.Error("set-equal backend sync must return the same state reference")
	}
}

func TestSyncFromBackendReplacesWholesale(t *testing.T) {
	s := NewState().Initialize([]uint{3, 7}, t0)
	next := s.SyncFromBackend([]uint{7, 11}, t0.Add(time.Second))

	if next == s {
		t.Fatal("expected a transition")
	}
	if !setEqual(next.IDs, []uint{7, 11}) {
		t.Errorf("expected {7, 11}, got %v", next.IDs)
	}
	if next.LastAction != nil {
		t.Error("bulk sync must clear LastAction")
	}
}

func TestSyncFromStorageAlwaysWins(t *testing.T) {
	states := []*State{
		NewState(),
		NewState().Initialize([]uint{1, 2, 3}, t0),
		NewState().Initialize([]uint{3, 7, 9}, t0).AddFavorite(42, t0),
	}
	for _, s := range states {
		next := s.SyncFromStorage([]uint{3, 7, 9})
		if !setEqual(next.IDs, []uint{3, 7, 9}) {
			t.Errorf("expected {3, 7, 9} regardless of prior state, got %v", next.IDs)
		}
		if next.LastAction != nil {
			t.Error("storage sync must clear LastAction")
		}
	}
}

func TestSetLoading(t *testing.T) {
	s := NewState()
	loading := s.SetLoading(true)
	if !loading.IsLoading {
		t.Error("expected IsLoading true")
	}
	if again := loading.SetLoading(true); again != loading {
		t.Error("redundant SetLoading must return the same state reference")
	}
}
