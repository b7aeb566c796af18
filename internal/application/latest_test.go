package application

import (
	"context"
	"testing"
)

func TestLatestGateSupersedesOlderLoad(t *testing.T) {
	t.Parallel()

	gate := newLatestGate(0)

	firstCtx, firstCancel := context.WithCancel(context.Background())
	defer firstCancel()
	first := gate.begin("catalog|fp", firstCancel)

	second := gate.begin("catalog|fp", func() {})

	if firstCtx.Err() == nil {
		t.Fatalf("expected the older load to be canceled")
	}
	if gate.current(first) {
		t.Fatalf("expected the older ticket to be stale")
	}
	if !gate.current(second) {
		t.Fatalf("expected the newer ticket to be current")
	}

	gate.done(first)
	if !gate.current(second) {
		t.Fatalf("finishing a stale load must not release the newer one")
	}

	gate.done(second)
	third := gate.begin("catalog|fp", func() {})
	if third.generation != second.generation+1 {
		t.Fatalf("expected generations to keep counting, got %d after %d", third.generation, second.generation)
	}
}

func TestLatestGateKeysAreIndependent(t *testing.T) {
	t.Parallel()

	gate := newLatestGate(0)
	a := gate.begin("catalog|a", func() {})
	b := gate.begin("catalog|b", func() {})
	if !gate.current(a) || !gate.current(b) {
		t.Fatalf("expected loads for different sessions to coexist")
	}

	zero := gate.begin("", func() {})
	if !gate.current(zero) {
		t.Fatalf("expected the empty key to opt out of superseding")
	}
}

func TestLatestGateEvictsWhenFull(t *testing.T) {
	t.Parallel()

	gate := newLatestGate(2)
	first := gate.begin("a", func() {})
	gate.done(first)
	gate.begin("b", func() {})
	gate.begin("c", func() {})

	if len(gate.entries) != 2 {
		t.Fatalf("expected gate to stay bounded, got %d entries", len(gate.entries))
	}
	if _, ok := gate.entries["a"]; ok {
		t.Fatalf("expected the finished entry to be evicted first")
	}
}

func TestLatestGateStaleTicketSurvivesEviction(t *testing.T) {
	t.Parallel()

	gate := newLatestGate(2)
	stale := gate.begin("k", func() {})
	latest := gate.begin("k", func() {})
	gate.done(latest)
	gate.begin("x", func() {})
	gate.begin("y", func() {})
	if _, ok := gate.entries["k"]; ok {
		t.Fatalf("expected the finished key to be evicted")
	}

	fresh := gate.begin("k", func() {})
	if gate.current(stale) {
		t.Fatalf("expected a ticket from before eviction to stay superseded")
	}
	if !gate.current(fresh) {
		t.Fatalf("expected the new ticket to be current")
	}
}
