package routing

import "github.com/zeusync/worldcore/internal/core/models"

// ReceiverCache memoizes the receivers found for one sender site. The zero
// value is unpopulated. The owner must Invalidate it whenever the hierarchy
// under the search root changes; it never invalidates itself.
type ReceiverCache struct {
	receivers []models.ComponentHandle
	// levels holds the end offset in receivers of every hierarchy level
	// found by the search, in delivery order.
	levels    []int
	populated bool
}

// Populated reports whether a search has run since the last Invalidate, even
// if it found nobody.
func (c *ReceiverCache) Populated() bool {
	return c.populated
}

// Receivers returns the cached handles in delivery order.
func (c *ReceiverCache) Receivers() []models.ComponentHandle {
	return c.receivers
}

// Levels returns the number of hierarchy levels cached.
func (c *ReceiverCache) Levels() int {
	return len(c.levels)
}

func (c *ReceiverCache) Invalidate() {
	c.receivers = nil
	c.levels = nil
	c.populated = false
}

func (c *ReceiverCache) contains(h models.ComponentHandle) bool {
	for _, r := range c.receivers {
		if r == h {
			return true
		}
	}
	return false
}

// closeLevel ends the level that started at offset start. It reports false
// when the level is empty.
func (c *ReceiverCache) closeLevel(start int) bool {
	if len(c.receivers) == start {
		return false
	}
	c.levels = append(c.levels, len(c.receivers))
	return true
}
