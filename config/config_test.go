package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.StorageType != "mongo" {
		t.Errorf("StorageType = %q, want mongo", cfg.StorageType)
	}
	if cfg.IDLength != 8 {
		t.Errorf("IDLength = %d, want 8", cfg.IDLength)
	}
	if cfg.IDMaxAttempts != 5 {
		t.Errorf("IDMaxAttempts = %d, want 5", cfg.IDMaxAttempts)
	}
	if cfg.MaxContentLength != 512000 {
		t.Errorf("MaxContentLength = %d, want 512000", cfg.MaxContentLength)
	}
	if cfg.MaxTitleLength != 255 {
		t.Errorf("MaxTitleLength = %d, want 255", cfg.MaxTitleLength)
	}
	if cfg.MaxSyntaxLength != 50 {
		t.Errorf("MaxSyntaxLength = %d, want 50", cfg.MaxSyntaxLength)
	}
	if cfg.MaxExpirationMinutes != 525600 {
		t.Errorf("MaxExpirationMinutes = %d, want 525600", cfg.MaxExpirationMinutes)
	}
	if cfg.MaxViewsLimit != 1000000 {
		t.Errorf("MaxViewsLimit = %d, want 1000000", cfg.MaxViewsLimit)
	}
	if cfg.RateLimitWindow != 15*time.Minute || cfg.RateLimitMax != 100 {
		t.Errorf("general rate limit = %d per %v, want 100 per 15m", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.CreateLimitWindow != time.Minute || cfg.CreateLimitMax != 10 {
		t.Errorf("creation rate limit = %d per %v, want 10 per 1m", cfg.CreateLimitMax, cfg.CreateLimitWindow)
	}
}

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEXTBIN_TEST_STR", "custom")
	if got := getEnvString("TEXTBIN_TEST_STR", "fallback"); got != "custom" {
		t.Errorf("getEnvString() = %q, want custom", got)
	}
	if got := getEnvString("TEXTBIN_TEST_STR_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnvString() = %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEXTBIN_TEST_INT", "42")
	if got := getEnvInt("TEXTBIN_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt() = %d, want 42", got)
	}

	t.Setenv("TEXTBIN_TEST_INT_BAD", "not-a-number")
	if got := getEnvInt("TEXTBIN_TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getEnvInt() with garbage = %d, want fallback 7", got)
	}

	if got := getEnvInt("TEXTBIN_TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("getEnvInt() unset = %d, want fallback 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEXTBIN_TEST_BOOL", "true")
	if got := getEnvBool("TEXTBIN_TEST_BOOL", false); !got {
		t.Error("getEnvBool() = false, want true")
	}

	t.Setenv("TEXTBIN_TEST_BOOL_BAD", "maybe")
	if got := getEnvBool("TEXTBIN_TEST_BOOL_BAD", true); !got {
		t.Error("getEnvBool() with garbage should return fallback")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEXTBIN_TEST_DUR", "30s")
	if got := getEnvDuration("TEXTBIN_TEST_DUR", time.Minute); got != 30*time.Second {
		t.Errorf("getEnvDuration() = %v, want 30s", got)
	}

	t.Setenv("TEXTBIN_TEST_DUR_BAD", "soon")
	if got := getEnvDuration("TEXTBIN_TEST_DUR_BAD", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() with garbage = %v, want fallback 1m", got)
	}
}
