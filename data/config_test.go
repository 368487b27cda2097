package data

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "SEMESTER_CODE", "SEMESTER_START", "SEMESTER_END", "TIMEZONE",
		"RATE_LIMIT_PER_SECOND", "RATE_LIMIT_BURST", "ALLOWED_ORIGINS", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3000 || cfg.RateLimitBurst != 10 || cfg.RateLimitPerSecond != 5 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Semester.Code != "2025-2" || cfg.Semester.Location.String() != "Asia/Seoul" {
		t.Errorf("semester %+v", cfg.Semester)
	}
	if cfg.Semester.Start.Weekday() != time.Monday || cfg.Semester.End.Day() != 19 {
		t.Errorf("semester range %s - %s", cfg.Semester.Start, cfg.Semester.End)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEMESTER_CODE", "2026-1")
	t.Setenv("SEMESTER_START", "2026-03-02")
	t.Setenv("SEMESTER_END", "2026-06-19")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("overrides were not applied %+v", cfg)
	}
	if cfg.LogLevel.String() != "DEBUG" {
		t.Errorf("log level %s", cfg.LogLevel)
	}
	if cfg.Semester.Code != "2026-1" || cfg.Semester.Start.Month() != time.March {
		t.Errorf("semester %+v", cfg.Semester)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "abc"},
		{"PORT", "70000"},
		{"RATE_LIMIT_BURST", "0"},
		{"SEMESTER_START", "01/09/2025"},
		{"SEMESTER_END", "2025-01-01"},
		{"TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("expected %s=%s to be rejected", tt.key, tt.value)
			}
		})
	}
}
