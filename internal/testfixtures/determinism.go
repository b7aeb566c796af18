package testfixtures

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/meeting"
)

// Clock is a wall clock that only moves when a test moves it. Readings are
// reported in the canonical zone.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewClock starts a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start.In(meeting.Canonical)}
}

func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// NowFunc adapts the clock to the func() time.Time seams services take.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Advance moves the clock by d and returns the new reading.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// SetTimeOfDay keeps the current canonical date and moves the wall time to
// hh:mm.
func (c *Clock) SetTimeOfDay(hour, minute int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.now.Date()
	c.now = time.Date(y, m, d, hour, minute, 0, 0, meeting.Canonical)
	return c.now
}

// IDGenerator hands out "<prefix>-<n>" identifiers and remembers them.
type IDGenerator struct {
	prefix string
	n      atomic.Uint64

	mu     sync.Mutex
	issued []string
}

// NewIDGenerator uses prefix, or "id" when prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	id := g.prefix + "-" + strconv.FormatUint(g.n.Add(1), 10)
	g.mu.Lock()
	g.issued = append(g.issued, id)
	g.mu.Unlock()
	return id
}

// NextFunc adapts the generator to the func() string seams services take.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Issued returns every identifier handed out so far, oldest first.
func (g *IDGenerator) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.issued...)
}
