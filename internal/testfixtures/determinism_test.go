package testfixtures

import (
	"sync"
	"testing"
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/meeting"
)

func TestClock(t *testing.T) {
	t.Parallel()

	t.Run("zero start means reference time", func(t *testing.T) {
		clock := NewClock(time.Time{})
		if !clock.Now().Equal(ReferenceTime()) {
			t.Fatalf("expected ReferenceTime, got %v", clock.Now())
		}
		if got := meeting.DateOf(clock.Now()).String(); got != ReferenceDate {
			t.Fatalf("expected %s, got %s", ReferenceDate, got)
		}
	})

	t.Run("readings are canonical", func(t *testing.T) {
		clock := NewClock(time.Date(2025, time.November, 12, 2, 0, 0, 0, time.UTC))
		if got := clock.Now().Format("15:04 -07:00"); got != "09:00 +07:00" {
			t.Fatalf("unexpected reading %s", got)
		}
	})

	t.Run("advance and time of day", func(t *testing.T) {
		clock := NewClock(time.Time{})
		nowFn := clock.NowFunc()

		if got := clock.Advance(90 * time.Minute); !got.Equal(At(10, 30)) {
			t.Fatalf("advance returned %v", got)
		}
		if got := clock.SetTimeOfDay(14, 15); !got.Equal(At(14, 15)) {
			t.Fatalf("SetTimeOfDay returned %v", got)
		}
		if !nowFn().Equal(At(14, 15)) {
			t.Fatalf("NowFunc did not follow the clock")
		}
	})
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("expected default prefix, got %q", got)
	}

	sub := NewIDGenerator("sub")
	next := sub.NextFunc()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next()
		}()
	}
	wg.Wait()

	issued := sub.Issued()
	if len(issued) != 10 {
		t.Fatalf("expected 10 ids, got %d", len(issued))
	}
	seen := make(map[string]bool, len(issued))
	for _, id := range issued {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if !seen["sub-1"] || !seen["sub-10"] {
		t.Fatalf("unexpected ids %v", issued)
	}
}
