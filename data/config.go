package data

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	// semesters are pinned to a named zone even on hosts without zoneinfo
	_ "time/tzdata"

	"github.com/Pjt727/cample/data/projectpath"
	"github.com/Pjt727/cample/timetable"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

func init() {
	// the .env file is optional, real deployments set the variables directly
	err := godotenv.Load(filepath.Join(projectpath.Root, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not read .env file: ", err)
	}
}

type Config struct {
	DBConn     string
	TestDBConn string
	Port       int

	Semester timetable.Semester

	// per student on the mutating routes
	RateLimitPerSecond float64
	RateLimitBurst     int

	AllowedOrigins []string

	LogFormat string
	LogFile   string
	LogLevel  slog.Level
}

// LoadConfig reads the environment, any variable left unset takes its default
func LoadConfig() (Config, error) {
	var errs []error
	cfg := Config{
		DBConn:         os.Getenv("DB_CONN"),
		TestDBConn:     os.Getenv("TEST_DB_CONN"),
		Port:           envInt("PORT", 3000, &errs),
		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{"*"}),
		LogFormat:      envString("LOG_FORMAT", "text"),
		LogFile:        os.Getenv("LOG_FILE"),

		RateLimitPerSecond: envFloat("RATE_LIMIT_PER_SECOND", 5, &errs),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 10, &errs),
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	semester, err := ParseSemester(
		envString("SEMESTER_CODE", "2025-2"),
		envString("SEMESTER_START", "2025-09-01"),
		envString("SEMESTER_END", "2025-12-19"),
		envString("TIMEZONE", "Asia/Seoul"),
	)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Semester = semester

	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", cfg.Port))
	}
	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ParseSemester builds the materialization range, start and end are inclusive "2006-01-02" dates
func ParseSemester(code, start, end, timezone string) (timetable.Semester, error) {
	if strings.TrimSpace(code) == "" {
		return timetable.Semester{}, errors.New("semester code is empty")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return timetable.Semester{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	startDate, err := time.ParseInLocation(dateLayout, start, loc)
	if err != nil {
		return timetable.Semester{}, fmt.Errorf("SEMESTER_START: %w", err)
	}
	endDate, err := time.ParseInLocation(dateLayout, end, loc)
	if err != nil {
		return timetable.Semester{}, fmt.Errorf("SEMESTER_END: %w", err)
	}
	if endDate.Before(startDate) {
		return timetable.Semester{}, fmt.Errorf("semester %s ends before it starts", code)
	}
	return timetable.Semester{Code: code, Start: startDate, End: endDate, Location: loc}, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64, errs *[]error) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func envList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
