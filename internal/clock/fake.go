package clock

import "time"

// FakeClock reports a fixed instant so rate-window and timestamp logic can
// be pinned in tests. Not safe for concurrent use.
type FakeClock struct {
	current time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the reported instant by d, which may be negative.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
