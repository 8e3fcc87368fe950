package presenter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/williampepple1/trust-score-scraper/internal/extraction"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

var (
	// ErrInsufficientData means the page yielded no title or no images.
	ErrInsufficientData = errors.New("insufficient product data")

	// ErrNoResult means the scorer returned neither a result nor an error.
	ErrNoResult = errors.New("no trust score data received")

	// ErrUnexpected wraps a panic recovered during the page-load sequence.
	ErrUnexpected = errors.New("unexpected failure")

	// ErrNotReady is returned for clicks before a badge is mounted.
	ErrNotReady = errors.New("trust badge not mounted")
)

// Scorer produces a trust score for a snapshot
type Scorer interface {
	FetchScore(ctx context.Context, snap models.ProductSnapshot) (*models.ScoreResult, error)
}

// Outcome describes one Run
type Outcome struct {
	State    State
	Skipped  bool
	Snapshot models.ProductSnapshot
	Score    *models.ScoreResult
	Err      error
}

// Controller runs the page-load sequence against one mount point and owns
// the resulting UI state.
type Controller struct {
	mount        MountPoint
	scorer       Scorer
	extractor    *extraction.Extractor
	errorDismiss time.Duration

	// removeMu orders error indicator removal against new runs; take it before mu.
	removeMu sync.Mutex

	mu         sync.Mutex
	state      State
	modalOpen  bool
	dismiss    *time.Timer
	dismissGen int
}

// NewController creates a controller in the Idle state
func NewController(mount MountPoint, scorer Scorer, extractor *extraction.Extractor, errorDismiss time.Duration) *Controller {
	return &Controller{
		mount:        mount,
		scorer:       scorer,
		extractor:    extractor,
		errorDismiss: errorDismiss,
	}
}

// State returns the current UI state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ModalOpen reports whether the detail modal is shown
func (c *Controller) ModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalOpen
}

// Run extracts the product from doc, scores it and mounts the badge and
// hidden modal. Any failure ends in StateFailed with a self-dismissing error
// indicator. Run is skipped while a run is in progress or a badge is mounted.
func (c *Controller) Run(ctx context.Context, doc *goquery.Document) (out Outcome) {
	c.mu.Lock()
	prev := c.state
	if prev == StateLoading || prev == StateReady {
		c.mu.Unlock()
		return Outcome{State: prev, Skipped: true}
	}
	c.state = StateLoading
	c.mu.Unlock()

	// Loading keeps other runs out while the mount is queried unlocked.
	mounted, err := c.mount.Mounted(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Could not check for an existing badge")
	}
	if mounted {
		c.mu.Lock()
		c.state = prev
		c.mu.Unlock()
		log.Debug().Msg("Trust badge already mounted, skipping")
		return Outcome{State: prev, Skipped: true}
	}
	c.clearError(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Error in trust score sequence")
			out = c.fail(ctx, out, fmt.Errorf("%w: %v", ErrUnexpected, r))
		}
		if err := c.mount.Remove(ctx, LoaderID); err != nil {
			log.Debug().Err(err).Msg("Failed to remove loader")
		}
	}()

	if err := c.mount.AttachStyles(ctx, Styles); err != nil {
		return c.fail(ctx, out, fmt.Errorf("attach styles: %w", err))
	}
	loader, err := LoaderMarkup()
	if err != nil {
		return c.fail(ctx, out, err)
	}
	if err := c.mount.AttachMarkup(ctx, loader); err != nil {
		return c.fail(ctx, out, fmt.Errorf("show loader: %w", err))
	}

	out.Snapshot = c.extractor.Extract(doc)
	if !out.Snapshot.Usable() {
		return c.fail(ctx, out, ErrInsufficientData)
	}

	result, err := c.scorer.FetchScore(ctx, out.Snapshot)
	if err != nil {
		return c.fail(ctx, out, err)
	}
	if result == nil {
		return c.fail(ctx, out, ErrNoResult)
	}

	if err := c.mountResult(ctx, result); err != nil {
		c.unmount(ctx)
		return c.fail(ctx, out, err)
	}

	c.mu.Lock()
	c.state = StateReady
	c.mu.Unlock()

	log.Info().
		Int("trust_score", Percent(result.TrustScore)).
		Str("title", out.Snapshot.Title).
		Msg("Trust badge mounted")

	out.State = StateReady
	out.Score = result
	return out
}

func (c *Controller) mountResult(ctx context.Context, result *models.ScoreResult) error {
	badge, err := BadgeMarkup(result)
	if err != nil {
		return err
	}
	modal, err := ModalMarkup(result)
	if err != nil {
		return err
	}
	if err := c.mount.AttachMarkup(ctx, badge); err != nil {
		return fmt.Errorf("mount badge: %w", err)
	}
	if err := c.mount.AttachMarkup(ctx, modal); err != nil {
		return fmt.Errorf("mount modal: %w", err)
	}
	if err := c.mount.AttachBehavior(ctx, Behavior); err != nil {
		return fmt.Errorf("wire badge: %w", err)
	}
	return nil
}

func (c *Controller) unmount(ctx context.Context) {
	for _, id := range []string{BadgeID, ModalID} {
		if err := c.mount.Remove(ctx, id); err != nil {
			log.Debug().Err(err).Str("id", id).Msg("Failed to remove partial mount")
		}
	}
}

// fail shows the error indicator and schedules its removal
func (c *Controller) fail(ctx context.Context, out Outcome, cause error) Outcome {
	log.Warn().Err(cause).Msg("Trust score unavailable")

	c.mu.Lock()
	c.dismissGen++
	gen := c.dismissGen
	after := c.errorDismiss
	c.mu.Unlock()

	shown := false
	if msg, err := ErrorMarkup(ErrorMessage, gen); err == nil {
		if err := c.mount.AttachMarkup(ctx, msg); err != nil {
			log.Error().Err(err).Msg("Failed to show error indicator")
		} else {
			shown = true
		}
	}
	if shown {
		// Pages written to disk dismiss the indicator themselves.
		if err := c.mount.AttachBehavior(ctx, DismissScript(gen, after)); err != nil {
			log.Debug().Err(err).Msg("Failed to attach error dismissal")
		}
	}

	c.mu.Lock()
	c.state = StateFailed
	if shown && gen == c.dismissGen {
		// The timer outlives the caller's deadline but keeps its values.
		timerCtx := context.WithoutCancel(ctx)
		c.dismiss = time.AfterFunc(after, func() { c.dismissError(timerCtx, gen) })
	}
	c.mu.Unlock()

	out.State = StateFailed
	out.Err = cause
	return out
}

// dismissError removes the indicator of run gen unless a newer run took over.
// removeMu is held across the removal so a new run cannot show its indicator
// until a stale removal has finished.
func (c *Controller) dismissError(ctx context.Context, gen int) {
	c.removeMu.Lock()
	defer c.removeMu.Unlock()

	c.mu.Lock()
	if c.dismiss == nil || c.dismissGen != gen {
		c.mu.Unlock()
		return
	}
	c.dismiss = nil
	c.mu.Unlock()

	if err := c.mount.Remove(ctx, ErrorID); err != nil {
		log.Debug().Err(err).Msg("Failed to remove error indicator")
	}
}

// clearError cancels a pending dismissal and removes any indicator left by
// an earlier run
func (c *Controller) clearError(ctx context.Context) {
	c.removeMu.Lock()
	defer c.removeMu.Unlock()

	c.mu.Lock()
	c.modalOpen = false
	c.stopDismissLocked()
	c.mu.Unlock()

	if err := c.mount.Remove(ctx, ErrorID); err != nil {
		log.Debug().Err(err).Msg("Failed to clear previous error indicator")
	}
}

// stopDismissLocked cancels a pending error removal
func (c *Controller) stopDismissLocked() {
	if c.dismiss == nil {
		return
	}
	c.dismiss.Stop()
	c.dismiss = nil
}

// Stop cancels a pending error indicator removal
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopDismissLocked()
}

// HandleClick applies a click on the badge UI. The badge opens the modal;
// the close control and the modal background close it.
func (c *Controller) HandleClick(ctx context.Context, target Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}

	var open bool
	switch target {
	case TargetBadge:
		open = true
	case TargetClose, TargetBackground:
		open = false
	case TargetContent:
		return nil
	default:
		return fmt.Errorf("unknown click target %q", target)
	}

	if err := c.mount.SetVisible(ctx, ModalID, open); err != nil {
		return err
	}
	c.modalOpen = open
	return nil
}
