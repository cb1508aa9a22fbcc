package middleware

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	fail := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if cb.GetState() != StateClosed {
			t.Fatalf("state before failure %d = %s, want closed", i, cb.GetState())
		}
		cb.Call(fail)
	}

	if cb.GetState() != StateOpen {
		t.Errorf("state = %s, want open after threshold failures", cb.GetState())
	}

	// Open circuit rejects without invoking the function
	invoked := false
	err := cb.Call(func() error {
		invoked = true
		return nil
	})
	if err == nil {
		t.Error("expected rejection from open circuit")
	}
	if invoked {
		t.Error("function invoked while circuit open")
	}
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	cb.Call(func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %s, want open", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)

	// First call after the timeout probes in half-open
	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("probe call %d error = %v", i, err)
		}
	}

	if cb.GetState() != StateClosed {
		t.Errorf("state = %s, want closed after successful probes", cb.GetState())
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	cb.Call(func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	cb.Call(func() error { return errors.New("still down") })

	if cb.GetState() != StateOpen {
		t.Errorf("state = %s, want open after half-open failure", cb.GetState())
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	cb.Call(func() error { return errors.New("boom") })
	cb.Call(func() error { return errors.New("boom") })
	cb.Call(func() error { return nil })
	cb.Call(func() error { return errors.New("boom") })
	cb.Call(func() error { return errors.New("boom") })

	if cb.GetState() != StateClosed {
		t.Errorf("state = %s, want closed (failures reset by success)", cb.GetState())
	}
}

func TestDetermineServiceFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/auth/login", "user"},
		{"/api/users/me", "user"},
		{"/api/admin/stats", "user"},
		{"/api/recipes", "recipe"},
		{"/api/recipes/42/comments", "recipe"},
		{"/api/favorites/ids", "favorites"},
		{"/health", ""},
		{"/", ""},
	}

	for _, tc := range cases {
		if got := DetermineServiceFromPath(tc.path); got != tc.want {
			t.Errorf("DetermineServiceFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
