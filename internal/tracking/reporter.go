package tracking

import (
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/time/rate"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/logger"
)

// reporter forwards records to the backend: ERROR and above become events,
// INFO and WARNING become breadcrumbs.
type reporter struct {
	client    Client
	ignore    []glob.Glob
	limiter   *rate.Limiter // nil when unlimited
	appLogger *logger.AppLogger
}

func newReporter(client Client, cfg config.Tracking, appLogger *logger.AppLogger) *reporter {
	r := &reporter{client: client, appLogger: appLogger}

	for _, pattern := range cfg.IgnoreMessages {
		g, err := glob.Compile(pattern)
		if err != nil {
			appLogger.Warn("Skipping invalid ignore pattern '%s': %v", pattern, err)
			continue
		}
		r.ignore = append(r.ignore, g)
	}

	if cfg.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), cfg.RateLimit)
	}
	return r
}

// Fire implements logger.Hook.
func (r *reporter) Fire(rec logger.Record) {
	if rec.Level < logger.INFO || r.ignored(rec.Message) {
		return
	}
	if rec.Level < logger.ERROR {
		r.client.AddBreadcrumb(rec)
		return
	}
	if r.limiter != nil && !r.limiter.Allow() {
		return
	}
	r.client.CaptureEvent(rec)
}

// Flush implements logger.Hook.
func (r *reporter) Flush(timeout time.Duration) bool {
	return r.client.Flush(timeout)
}

func (r *reporter) ignored(msg string) bool {
	for _, g := range r.ignore {
		if g.Match(msg) {
			return true
		}
	}
	return false
}

// Ensure reporter implements logger.Hook.
var _ logger.Hook = (*reporter)(nil)
