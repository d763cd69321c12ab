package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/textbin/textbin/config"
	"github.com/textbin/textbin/expiry"
	"github.com/textbin/textbin/models"
	"github.com/textbin/textbin/storage"
	"github.com/textbin/textbin/utils"
)

// Expiry reasons reported on denied accesses.
const (
	ReasonTime  = "time"
	ReasonViews = "views"
)

// ErrIDExhaustion is returned when the bounded ID retry loop runs out of
// attempts. The ID space makes this essentially impossible in practice; it
// signals store or alphabet misconfiguration rather than user error.
var ErrIDExhaustion = errors.New("failed to generate unique paste id")

// PasteService handles paste business logic
type PasteService struct {
	store  storage.PasteStore
	config *config.Config
	policy expiry.Policy
	idGen  *utils.IDGenerator

	// GenerateID produces candidate IDs. Swappable in tests to exercise
	// the collision path with a deterministic generator.
	GenerateID func() (string, error)
}

// NewPasteService creates a new paste service
func NewPasteService(store storage.PasteStore, cfg *config.Config) *PasteService {
	policy := expiry.NewPolicy()
	if cfg.MaxExpirationMinutes > 0 {
		policy.MaxMinutes = cfg.MaxExpirationMinutes
	}
	if cfg.MaxViewsLimit > 0 {
		policy.MaxViews = cfg.MaxViewsLimit
	}

	idGen := utils.NewIDGenerator(cfg.IDAlphabet, cfg.IDLength)

	return &PasteService{
		store:      store,
		config:     cfg,
		policy:     policy,
		idGen:      idGen,
		GenerateID: idGen.Generate,
	}
}

// IsValidID checks whether an ID has the configured format
func (s *PasteService) IsValidID(id string) bool {
	return s.idGen.IsValid(id)
}

// CreatePasteRequest represents a validated-at-the-boundary creation request
type CreatePasteRequest struct {
	Content           string
	Title             string
	Syntax            string
	ExpirationType    string
	ExpirationMinutes *float64
	MaxViews          *float64
}

// AccessResult classifies the outcome of a paste access
type AccessResult struct {
	Found    bool
	Expired  bool
	Reason   string // "time" or "views" when Expired
	LastView bool
	Paste    *models.Paste
}

// Stats holds derived paste counts
type Stats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// CreatePaste validates the request, derives the expiry schedule, generates
// a unique ID with bounded retry, and persists the paste.
func (s *PasteService) CreatePaste(req CreatePasteRequest) (*models.Paste, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.NewValidationError("content",
			"content is required and must be a non-empty string")
	}
	if utf8.RuneCountInString(content) > s.config.MaxContentLength {
		return nil, models.NewValidationError("content",
			fmt.Sprintf("content cannot exceed %d characters", s.config.MaxContentLength))
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}
	if utf8.RuneCountInString(title) > s.config.MaxTitleLength {
		return nil, models.NewValidationError("title",
			fmt.Sprintf("title cannot exceed %d characters", s.config.MaxTitleLength))
	}

	syntax := req.Syntax
	if syntax == "" {
		syntax = "plaintext"
	}
	if utf8.RuneCountInString(syntax) > s.config.MaxSyntaxLength {
		return nil, models.NewValidationError("syntax",
			fmt.Sprintf("syntax cannot exceed %d characters", s.config.MaxSyntaxLength))
	}

	expirationType := req.ExpirationType
	if expirationType == "" {
		expirationType = models.ExpirationNever
	}
	schedule, err := s.policy.Validate(expirationType, req.ExpirationMinutes, req.MaxViews)
	if err != nil {
		return nil, err
	}

	// Bounded ID retry. The existence check is a fast path; the store's
	// unique-key constraint is the authoritative backstop, so a duplicate
	// insert also counts as a collision.
	maxAttempts := s.config.IDMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		id, err := s.GenerateID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate paste id: %w", err)
		}

		existing, err := s.store.Get(id)
		if err != nil {
			return nil, fmt.Errorf("failed to check id uniqueness: %w", err)
		}
		if existing != nil {
			continue
		}

		now := time.Now()
		paste := &models.Paste{
			ID:             id,
			Content:        content,
			Title:          title,
			Syntax:         syntax,
			ExpirationType: schedule.Type,
			ExpiresAt:      schedule.ExpiresAt,
			MaxViews:       schedule.MaxViews,
			ViewCount:      0,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		err = s.store.Insert(paste)
		if errors.Is(err, storage.ErrDuplicateID) {
			continue // lost the check-then-insert race, retry
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store paste: %w", err)
		}
		return paste, nil
	}

	return nil, ErrIDExhaustion
}

// GetPasteByID performs the view-incrementing read: fetch, deny if
// time-expired, deny if view-expired, otherwise atomically increment the
// view count and re-check against the post-increment state. When this
// access was the one that used up the quota, content is still returned but
// flagged as the last view. A post-increment count over the quota means a
// concurrent reader consumed the final view first; that access is denied,
// so the whole sequence behaves as if serialized per paste.
func (s *PasteService) GetPasteByID(id string) (*AccessResult, error) {
	paste, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve paste: %w", err)
	}
	if paste == nil {
		return &AccessResult{Found: false}, nil
	}

	// Time before views: a time-expired paste is never counted as viewed
	// again, even when its view quota also ran out.
	if paste.IsTimeExpired() {
		return &AccessResult{Found: true, Expired: true, Reason: ReasonTime}, nil
	}
	if paste.IsViewExpired() {
		return &AccessResult{Found: true, Expired: true, Reason: ReasonViews}, nil
	}

	newCount, err := s.store.IncrementViewCount(id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between the fetch and the increment
		return &AccessResult{Found: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment view count: %w", err)
	}

	// Re-check on the post-increment state. Landing exactly on the quota is
	// the final permitted read and succeeds, flagged. Landing past it means
	// another reader slipped in between the fetch and the increment and
	// took the last view, so this access is denied.
	paste.ViewCount = newCount
	if paste.MaxViews != nil && newCount > *paste.MaxViews {
		return &AccessResult{Found: true, Expired: true, Reason: ReasonViews}, nil
	}
	return &AccessResult{
		Found:    true,
		LastView: paste.IsViewExpired(),
		Paste:    paste,
	}, nil
}

// GetPasteMetadata classifies a paste without incrementing the view count
// or returning content
func (s *PasteService) GetPasteMetadata(id string) (*AccessResult, error) {
	paste, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve paste: %w", err)
	}
	if paste == nil {
		return &AccessResult{Found: false}, nil
	}

	if paste.IsTimeExpired() {
		return &AccessResult{Found: true, Expired: true, Reason: ReasonTime}, nil
	}
	if paste.IsViewExpired() {
		return &AccessResult{Found: true, Expired: true, Reason: ReasonViews}, nil
	}

	return &AccessResult{Found: true, Paste: paste}, nil
}

// DeletePaste removes a paste, reporting whether it existed. Deletion works
// on expired-but-not-yet-swept pastes too.
func (s *PasteService) DeletePaste(id string) (bool, error) {
	return s.store.Delete(id)
}

// CleanupExpired removes all pastes matching the expiry predicate and
// returns how many were removed
func (s *PasteService) CleanupExpired() (int64, error) {
	return s.store.DeleteExpired(time.Now())
}

// GetStats returns total and active paste counts
func (s *PasteService) GetStats() (*Stats, error) {
	now := time.Now()

	total, err := s.store.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count pastes: %w", err)
	}
	active, err := s.store.CountActive(now)
	if err != nil {
		return nil, fmt.Errorf("failed to count active pastes: %w", err)
	}

	return &Stats{Total: total, Active: active}, nil
}
