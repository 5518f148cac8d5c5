package services

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(func(id string) *session.Controller {
		return session.NewController(id, session.Options{})
	}, 2, zerolog.Nop())

	a, err := r.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := r.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("node ids collide: %s", a.ID())
	}

	if _, err := r.Create(); !errors.Is(err, apperrors.ErrSessionLimitReached) {
		t.Fatalf("expected ErrSessionLimitReached, got %v", err)
	}

	if got, ok := r.Get(a.ID()); !ok || got != a {
		t.Fatalf("Get(%s) = %v, %v", a.ID(), got, ok)
	}
	if !r.Remove(a.ID()) {
		t.Fatalf("Remove returned false for a live node")
	}
	if r.Remove(a.ID()) {
		t.Fatalf("Remove returned true twice")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryEvictIdle(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := start
	r := NewRegistry(func(id string) *session.Controller {
		return session.NewController(id, session.Options{Now: func() time.Time { return now }})
	}, 0, zerolog.Nop())

	stale, _ := r.Create()
	now = start.Add(50 * time.Minute)
	fresh, _ := r.Create()

	evicted := r.EvictIdle(start.Add(time.Hour), 30*time.Minute)
	if len(evicted) != 1 || evicted[0] != stale.ID() {
		t.Fatalf("evicted = %v, want [%s]", evicted, stale.ID())
	}
	if _, ok := r.Get(fresh.ID()); !ok {
		t.Fatalf("fresh node was evicted")
	}
	if _, ok := r.Get(stale.ID()); ok {
		t.Fatalf("stale node is still registered")
	}
}
