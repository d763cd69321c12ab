package expiry

import (
	"fmt"
	"math"
	"time"

	"github.com/textbin/textbin/models"
)

// Default ceilings for expiration configuration.
const (
	DefaultMaxMinutes = 525600 // 1 year
	DefaultMaxViews   = 1000000
)

// Schedule is the concrete expiry state derived from a validated
// expiration configuration.
type Schedule struct {
	Type      string
	ExpiresAt *time.Time
	MaxViews  *int
}

// Policy validates expiration configurations and derives expiry schedules.
// It is pure: the only inputs are the request fields and the clock.
type Policy struct {
	MaxMinutes int
	MaxViews   int
	Now        func() time.Time
}

// NewPolicy returns a Policy with the default ceilings and the real clock
func NewPolicy() Policy {
	return Policy{
		MaxMinutes: DefaultMaxMinutes,
		MaxViews:   DefaultMaxViews,
		Now:        time.Now,
	}
}

// Validate checks an expiration configuration and derives the absolute
// deadline and view quota. Exactly the fields required by the type are
// populated: never sets neither, time sets only ExpiresAt, views sets only
// MaxViews, both sets both. For type never, supplied minutes/maxViews are
// silently ignored. Non-integer maxViews values are floored.
func (p Policy) Validate(typ string, minutes, maxViews *float64) (Schedule, error) {
	switch typ {
	case models.ExpirationNever, models.ExpirationTime, models.ExpirationViews, models.ExpirationBoth:
	default:
		return Schedule{}, models.NewValidationError("expirationType",
			"invalid expiration type, must be one of: never, time, views, both")
	}

	schedule := Schedule{Type: typ}

	if typ == models.ExpirationTime || typ == models.ExpirationBoth {
		if minutes == nil || *minutes <= 0 {
			return Schedule{}, models.NewValidationError("expirationMinutes",
				"minutes must be a positive number for time-based expiration")
		}
		if *minutes > float64(p.MaxMinutes) {
			return Schedule{}, models.NewValidationError("expirationMinutes",
				fmt.Sprintf("expiration time cannot exceed 1 year (%d minutes)", p.MaxMinutes))
		}
		expiresAt := p.Now().Add(time.Duration(*minutes * float64(time.Minute)))
		schedule.ExpiresAt = &expiresAt
	}

	if typ == models.ExpirationViews || typ == models.ExpirationBoth {
		if maxViews == nil || *maxViews <= 0 {
			return Schedule{}, models.NewValidationError("maxViews",
				"max views must be a positive number for view-based expiration")
		}
		if *maxViews > float64(p.MaxViews) {
			return Schedule{}, models.NewValidationError("maxViews",
				fmt.Sprintf("max views cannot exceed %d", p.MaxViews))
		}
		views := int(math.Floor(*maxViews))
		schedule.MaxViews = &views
	}

	return schedule, nil
}
