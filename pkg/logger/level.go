package logger

import (
	"log/slog"
	"strings"
)

const (
	levelTrace    = slog.LevelDebug - 4
	levelCritical = slog.LevelError + 4
)

func getLevelName(level slog.Leveler) string {
	var levelNames = map[slog.Leveler]string{
		levelTrace:    "TRACE",
		levelCritical: "CRITICAL",
	}

	if name, ok := levelNames[level]; ok {
		return name
	}
	return level.Level().String()
}

// ParseLevel maps a configuration string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return levelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return levelCritical
	}
	return slog.LevelInfo
}
