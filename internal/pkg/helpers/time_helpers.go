package helpers

import (
	"time"

	"github.com/yigit/nnpgpt/internal/pkg/logger"
)

// ParseDuration parses a duration string and falls back to def when it is
// empty or malformed.
func ParseDuration(durationStr string, def time.Duration) time.Duration {
	if durationStr == "" {
		return def
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		logger.Warn().Err(err).Str("durationStr", durationStr).Dur("default", def).Msg("Failed to parse duration string, using default")
		return def
	}
	return d
}
