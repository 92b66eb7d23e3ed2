package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StatsSource provides functions to retrieve current counts for gauge metrics.
// Each function returns the current count; returning -1 indicates the source
// is unavailable.
type StatsSource struct {
	ReviewBacklogCount     func() int
	RecentAuditRecordCount func() int
}

// StartCollector launches a goroutine that periodically updates gauge metrics.
// It runs every interval until the context is cancelled.
func StartCollector(ctx context.Context, src StatsSource, interval time.Duration) {
	// Do an initial collection immediately
	collect(src)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collect(src)
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("metrics collector started")
}

func collect(src StatsSource) {
	if src.ReviewBacklogCount != nil {
		if n := src.ReviewBacklogCount(); n >= 0 {
			ReviewBacklog.Set(float64(n))
		}
	}
	if src.RecentAuditRecordCount != nil {
		if n := src.RecentAuditRecordCount(); n >= 0 {
			RecentAuditRecords.Set(float64(n))
		}
	}
}
