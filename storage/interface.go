package storage

import (
	"errors"
	"time"

	"github.com/textbin/textbin/models"
)

// ErrDuplicateID is returned by Insert when the paste ID is already taken.
// Creation treats it as an ID collision and retries with a fresh ID.
var ErrDuplicateID = errors.New("paste id already exists")

// ErrNotFound is returned by IncrementViewCount when the paste no longer
// exists, e.g. a delete racing an increment.
var ErrNotFound = errors.New("paste not found")

// PasteStore defines the interface for paste storage backends.
// Backends apply their own connection-level timeouts; cancellation is not
// part of the core contract.
type PasteStore interface {
	// Get retrieves a paste by its ID. Returns (nil, nil) when absent.
	Get(id string) (*models.Paste, error)

	// Insert saves a new paste. Returns ErrDuplicateID when the ID is
	// already present, relying on the backend's unique-key constraint.
	Insert(paste *models.Paste) error

	// IncrementViewCount atomically increments the view count for a paste
	// and returns the new count. The increment must be serialized
	// per-record so concurrent accesses never lose updates.
	IncrementViewCount(id string) (int, error)

	// Delete removes a paste and reports whether it was present
	Delete(id string) (bool, error)

	// DeleteExpired removes all pastes matching the expiry predicate as of
	// now and returns how many were removed
	DeleteExpired(now time.Time) (int64, error)

	// Count returns the total number of stored pastes
	Count() (int64, error)

	// CountActive returns the number of pastes not matching the expiry
	// predicate as of now
	CountActive(now time.Time) (int64, error)

	// Close closes the storage connection
	Close() error
}

// sweepExpired is the expiry predicate shared by DeleteExpired and
// CountActive: past the deadline, or at/over the view quota.
func sweepExpired(p *models.Paste, now time.Time) bool {
	if p.ExpiresAt != nil && !now.Before(*p.ExpiresAt) {
		return true
	}
	if p.MaxViews != nil && p.ViewCount >= *p.MaxViews {
		return true
	}
	return false
}
