// Package presenter renders the trust badge and detail modal into a page
// and owns the page-load sequence that produces them.
package presenter

import (
	"context"
	"errors"
)

// Element ids of the injected UI
const (
	HostID   = "trust-score-host"
	StyleID  = "trust-score-styles"
	BadgeID  = "trust-score-button"
	ModalID  = "trust-score-modal"
	LoaderID = "trust-score-loader"
	ErrorID  = "trust-score-error"
)

// ErrElementNotFound is returned when an operation targets a missing element
var ErrElementNotFound = errors.New("element not found")

// MountPoint is where the UI is rendered. Its isolation strategy decides
// whether styles and markup land in the page itself or behind a shadow host.
type MountPoint interface {
	// Mounted reports whether a badge is already present.
	Mounted(ctx context.Context) (bool, error)

	// AttachStyles installs the stylesheet once.
	AttachStyles(ctx context.Context, css string) error

	// AttachMarkup appends an element given as HTML.
	AttachMarkup(ctx context.Context, markup string) error

	// AttachBehavior installs the script that wires badge and modal clicks.
	AttachBehavior(ctx context.Context, script string) error

	// SetVisible shows or hides the element with the given id.
	SetVisible(ctx context.Context, id string, visible bool) error

	// Remove deletes the element with the given id. Missing elements are not an error.
	Remove(ctx context.Context, id string) error
}
