package logginghelpers

import "log/slog"

const (
	// Level Debug -4
	// every call made to the calendar or the course catalog
	LevelReportIO slog.Level = -2
	// Level Info 0
	// Level Warn 4
	// Level Error 8
)

// shown instead of "DEBUG+2"
func levelName(level slog.Level) string {
	switch level {
	case LevelReportIO:
		return "IO"
	default:
		return level.String()
	}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelName(level))
		}
	}
	return a
}
