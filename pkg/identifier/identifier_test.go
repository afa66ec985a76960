package identifier

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type memStore struct {
	ids  map[string]struct{}
	last string
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{ids: make(map[string]struct{})}
	for _, id := range ids {
		s.ids[id] = struct{}{}
		if id > s.last {
			s.last = id
		}
	}
	return s
}

func (s *memStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.ids[id]
	return ok, nil
}

func (s *memStore) LastID(_ context.Context, prefix string) (string, error) {
	last := ""
	for id := range s.ids {
		if strings.HasPrefix(id, prefix) && id > last {
			last = id
		}
	}
	return last, nil
}

func (s *memStore) add(id string) {
	s.ids[id] = struct{}{}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	if _, err := New("fibonacci", 6); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if _, err := New(StrategyRandom, 0); err == nil {
		t.Fatal("expected error for non-positive width")
	}
}

func TestSequentialIDsAreDistinct(t *testing.T) {
	gen, err := New(StrategySequential, 6)
	if err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := gen.Next(context.Background(), PrefixOrder, store)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("call %d: duplicate ID %s", i, id)
		}
		seen[id] = struct{}{}
		store.add(id)
	}
}

func TestSequentialStartsAtOne(t *testing.T) {
	gen, _ := New(StrategySequential, 6)

	id, err := gen.Next(context.Background(), PrefixReservation, newMemStore())
	if err != nil {
		t.Fatal(err)
	}
	if id != "Res000001" {
		t.Fatalf("expected Res000001, got %s", id)
	}
}

func TestSequentialMintsSuccessor(t *testing.T) {
	gen, _ := New(StrategySequential, 6)
	store := newMemStore("O000041")

	id, err := gen.Next(context.Background(), PrefixOrder, store)
	if err != nil {
		t.Fatal(err)
	}
	if id != "O000042" {
		t.Fatalf("expected O000042, got %s", id)
	}
}

func TestSequentialFailsFastOnMalformedSuffix(t *testing.T) {
	gen, _ := New(StrategySequential, 6)
	store := newMemStore("Oabc123x")

	_, err := gen.Next(context.Background(), PrefixOrder, store)
	if !errors.Is(err, ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
}

func TestRandomIDsHaveFixedWidthSuffix(t *testing.T) {
	gen, _ := New(StrategyRandom, 6)
	store := newMemStore()

	for i := 0; i < 50; i++ {
		id, err := gen.Next(context.Background(), PrefixParking, store)
		if err != nil {
			t.Fatal(err)
		}
		suffix := strings.TrimPrefix(id, PrefixParking)
		if len(suffix) != 6 {
			t.Fatalf("expected 6-digit suffix, got %q", id)
		}
		store.add(id)
	}
}

func TestRandomRedrawsOnCollision(t *testing.T) {
	gen, _ := New(StrategyRandom, 6)

	// Pre-fill nothing but track probes: every returned ID must be absent
	// from the store at the moment of return.
	store := newMemStore()
	for i := 0; i < 20; i++ {
		id, err := gen.Next(context.Background(), PrefixEvent, store)
		if err != nil {
			t.Fatal(err)
		}
		if taken, _ := store.Exists(context.Background(), id); taken {
			t.Fatalf("generator returned an ID already in the store: %s", id)
		}
		store.add(id)
	}
}

func TestRandomHonorsContextCancellation(t *testing.T) {
	gen, _ := New(StrategyRandom, 6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Next(ctx, PrefixOrder, newMemStore())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
