// Package reclaim deletes ephemeral outputs the lifecycle tracker
// reports as no longer needed. It is the acting half of the
// separation: the tracker classifies, the collector deletes.
package reclaim

import (
	"errors"
	"io/fs"
	"sync"

	rkerrors "github.com/arthur-debert/rulekit/pkg/errors"
	"github.com/arthur-debert/rulekit/pkg/filesystem"
	"github.com/arthur-debert/rulekit/pkg/lifecycle"
	"github.com/arthur-debert/rulekit/pkg/logging"
	"github.com/rs/zerolog"
)

// Policy decides when sweeps act
type Policy string

const (
	// Eager sweeps act whenever called, typically right after a
	// consumer finishes
	Eager Policy = "eager"
	// AtEnd defers all deletion until the caller declares the run
	// finished
	AtEnd Policy = "at-end"
)

// Collector deletes reclaimable outputs through a filesystem seam
type Collector struct {
	fs       filesystem.FS
	tracker  *lifecycle.Tracker
	policy   Policy
	mu       sync.Mutex
	finished bool
	logger   zerolog.Logger
}

// NewCollector creates a collector over a filesystem and tracker.
// An empty policy defaults to Eager.
func NewCollector(fsys filesystem.FS, tracker *lifecycle.Tracker, policy Policy) (*Collector, error) {
	if policy == "" {
		policy = Eager
	}
	if policy != Eager && policy != AtEnd {
		return nil, rkerrors.Newf(rkerrors.ErrInvalidInput, "unknown reclaim policy %q", policy)
	}
	return &Collector{
		fs:      fsys,
		tracker: tracker,
		policy:  policy,
		logger:  logging.GetLogger("reclaim.collector"),
	}, nil
}

// Sweep deletes every currently reclaimable output and marks it
// reclaimed, returning the paths removed. Under the AtEnd policy it
// is a no-op until Finish is called. A file that is already gone
// still counts as reclaimed.
func (c *Collector) Sweep() ([]string, error) {
	c.mu.Lock()
	active := c.policy == Eager || c.finished
	c.mu.Unlock()
	if !active {
		return nil, nil
	}

	var removed []string
	var errs []error
	for path := range c.tracker.Reclaimable() {
		if err := c.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove output")
			errs = append(errs, err)
			continue
		}
		if err := c.tracker.MarkReclaimed(path); err != nil {
			errs = append(errs, err)
			continue
		}
		c.logger.Debug().Str("path", path).Msg("Reclaimed output")
		removed = append(removed, path)
	}

	if len(errs) > 0 {
		return removed, rkerrors.Wrapf(errors.Join(errs...), rkerrors.ErrInternal,
			"%d outputs could not be reclaimed", len(errs))
	}
	return removed, nil
}

// Finish declares the run complete and runs a final sweep. Under the
// AtEnd policy this is the moment deletion becomes allowed.
func (c *Collector) Finish() ([]string, error) {
	c.mu.Lock()
	c.finished = true
	c.mu.Unlock()
	return c.Sweep()
}
