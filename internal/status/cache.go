// Package status maintains the cached pending-change count read by the
// host status line.
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/srcup/srcup/internal/git"
)

// Kind classifies the pending-change state.
type Kind int

const (
	// KindUnknown means the probe failed or has not run yet.
	KindUnknown Kind = iota
	// KindUpToDate means the checkout matches its upstream branch.
	KindUpToDate
	// KindAhead means upstream has commits the checkout lacks.
	KindAhead
)

// Pending is the tri-state pending-change count. Formatting to display
// text happens only at the presentation boundary.
type Pending struct {
	kind Kind
	n    int
}

// Unknown returns the unknown/error sentinel.
func Unknown() Pending { return Pending{kind: KindUnknown} }

// UpToDate returns the zero-pending state.
func UpToDate() Pending { return Pending{kind: KindUpToDate} }

// Ahead returns the state for n upstream commits not yet pulled.
// Ahead(0) collapses to UpToDate.
func Ahead(n int) Pending {
	if n <= 0 {
		return UpToDate()
	}
	return Pending{kind: KindAhead, n: n}
}

// Kind returns the state classification.
func (p Pending) Kind() Kind { return p.kind }

// Count returns the number of pending commits; zero unless KindAhead.
func (p Pending) Count() int { return p.n }

// Text formats the count for display: "?", "0", or the decimal count.
func (p Pending) Text() string {
	switch p.kind {
	case KindUpToDate:
		return "0"
	case KindAhead:
		return fmt.Sprintf("%d", p.n)
	default:
		return "?"
	}
}

// ProbeFunc resolves the current pending state. It runs synchronously
// relative to the caller and never touches an interactive surface.
type ProbeFunc func() Pending

// GitProbe returns a probe that fetches origin, resolves the current
// branch, and counts commits ahead on the remote. Any query failure
// degrades to Unknown; a branch-name failure skips the count query.
func GitProbe(repoDir string) ProbeFunc {
	return func() Pending {
		if err := git.Fetch(repoDir); err != nil {
			return Unknown()
		}
		branch, err := git.CurrentBranch(repoDir)
		if err != nil {
			return Unknown()
		}
		count, err := git.AheadCount(repoDir, branch)
		if err != nil {
			return Unknown()
		}
		return Ahead(count)
	}
}

// Cache is the process-wide memoized pending count plus the active
// viewport tag. Mutated only by Refresh, MarkUpToDate, and the tag
// setters; the mutex covers hosts with more than one goroutine touching
// it (the probe watch runs off the event loop).
type Cache struct {
	mu      sync.Mutex
	pending Pending
	tag     string
	probe   ProbeFunc
}

// NewCache creates a cache in the Unknown state.
func NewCache(probe ProbeFunc) *Cache {
	return &Cache{pending: Unknown(), probe: probe}
}

// Pending returns the cached state without probing.
func (c *Cache) Pending() Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Refresh runs the probe and stores the result.
func (c *Cache) Refresh() Pending {
	p := c.probe()
	c.mu.Lock()
	c.pending = p
	c.mu.Unlock()
	return p
}

// MarkUpToDate resets the count to zero. Called after a successful
// update run; the probe is the only other writer.
func (c *Cache) MarkUpToDate() {
	c.mu.Lock()
	c.pending = UpToDate()
	c.mu.Unlock()
}

// SetActiveTag records which modal phase is currently on screen
// ("updating", "cloning", "showing-changes", ...).
func (c *Cache) SetActiveTag(tag string) {
	c.mu.Lock()
	c.tag = tag
	c.mu.Unlock()
}

// ClearActiveTag removes the phase tag when the surface closes.
func (c *Cache) ClearActiveTag() {
	c.SetActiveTag("")
}

// ActiveTag returns the current phase tag, or "" when no modal is open.
func (c *Cache) ActiveTag() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tag
}

// Watch refreshes the cache on a timer until ctx is canceled. The timer
// is re-armed only after each refresh completes, so a slow probe delays
// the next firing rather than overlapping it. When notify is non-nil it
// is called for every refresh that finds pending commits.
func (c *Cache) Watch(ctx context.Context, interval time.Duration, notify func(Pending)) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p := c.Refresh()
			if notify != nil && p.Kind() == KindAhead {
				notify(p)
			}
			timer.Reset(interval)
		}
	}
}
