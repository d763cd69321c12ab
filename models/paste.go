package models

import (
	"time"
)

// Expiration types supported by a paste.
const (
	ExpirationNever = "never"
	ExpirationTime  = "time"
	ExpirationViews = "views"
	ExpirationBoth  = "both"
)

// Paste represents a text paste with optional time- and view-based expiration
type Paste struct {
	ID             string     `json:"id" bson:"_id"`
	Content        string     `json:"content" bson:"content"`
	Title          string     `json:"title" bson:"title"`
	Syntax         string     `json:"syntax" bson:"syntax"`
	ExpirationType string     `json:"expiration_type" bson:"expiration_type"`
	ExpiresAt      *time.Time `json:"expires_at" bson:"expires_at,omitempty"`
	MaxViews       *int       `json:"max_views" bson:"max_views,omitempty"`
	ViewCount      int        `json:"view_count" bson:"view_count"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

// IsTimeExpired checks if the paste has passed its absolute deadline
func (p *Paste) IsTimeExpired() bool {
	if p.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*p.ExpiresAt)
}

// IsViewExpired checks if the paste has used up its view quota
func (p *Paste) IsViewExpired() bool {
	if p.MaxViews == nil {
		return false
	}
	return p.ViewCount >= *p.MaxViews
}

// IsExpired checks if the paste has expired by either time or views
func (p *Paste) IsExpired() bool {
	return p.IsTimeExpired() || p.IsViewExpired()
}

// RemainingViews returns how many views are left, or nil when the paste
// has no view limit
func (p *Paste) RemainingViews() *int {
	if p.MaxViews == nil {
		return nil
	}
	remaining := *p.MaxViews - p.ViewCount
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// TimeRemaining returns the duration until expiry, or nil when the paste
// has no deadline. Never negative.
func (p *Paste) TimeRemaining() *time.Duration {
	if p.ExpiresAt == nil {
		return nil
	}
	remaining := time.Until(*p.ExpiresAt)
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// PasteView is the API representation of a paste. Content is omitted for
// metadata responses.
type PasteView struct {
	ID             string     `json:"id"`
	Content        string     `json:"content,omitempty"`
	Title          string     `json:"title"`
	Syntax         string     `json:"syntax"`
	ExpirationType string     `json:"expiration_type"`
	ExpiresAt      *time.Time `json:"expires_at"`
	MaxViews       *int       `json:"max_views"`
	ViewCount      int        `json:"view_count"`
	RemainingViews *int       `json:"remaining_views"`
	TimeRemaining  *int64     `json:"time_remaining"`
	CreatedAt      time.Time  `json:"created_at"`
	IsExpired      bool       `json:"is_expired"`
	LastView       bool       `json:"last_view,omitempty"`
}

// View builds the API representation of the paste. Pass includeContent=false
// for metadata-only responses.
func (p *Paste) View(includeContent bool) *PasteView {
	view := &PasteView{
		ID:             p.ID,
		Title:          p.Title,
		Syntax:         p.Syntax,
		ExpirationType: p.ExpirationType,
		ExpiresAt:      p.ExpiresAt,
		MaxViews:       p.MaxViews,
		ViewCount:      p.ViewCount,
		RemainingViews: p.RemainingViews(),
		CreatedAt:      p.CreatedAt,
		IsExpired:      p.IsExpired(),
	}
	if includeContent {
		view.Content = p.Content
	}
	if remaining := p.TimeRemaining(); remaining != nil {
		ms := remaining.Milliseconds()
		view.TimeRemaining = &ms
	}
	return view
}
