package tracking

import (
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/logger"
	"github.com/orgoj/joblog/internal/platform"
	"github.com/orgoj/joblog/internal/version"
)

// sentryClient sends through its own hub so the global sentry state is
// left alone.
type sentryClient struct {
	hub *sentry.Hub
}

func newSentryClient(cfg config.Tracking, res platform.Resolution) (*sentryClient, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:            cfg.DSN,
		SendDefaultPII: cfg.SendDefaultPII,
		Environment:    string(res.Env),
		ServerName:     res.Host.Hostname,
		Release:        "joblog@" + version.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}
	return &sentryClient{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (c *sentryClient) SetTags(tags Tags) {
	c.hub.Scope().SetTags(tags)
}

func (c *sentryClient) CaptureEvent(r logger.Record) {
	event := sentry.NewEvent()
	event.Level = sentryLevel(r.Level)
	event.Logger = string(r.Logger)
	event.Message = truncateString(r.Message, maxMessageLength)
	event.Timestamp = r.Time
	event.Tags = map[string]string{
		"logger": string(r.Logger),
		"file":   r.File,
		"line":   strconv.Itoa(r.Line),
	}
	if r.Err != nil {
		event.Exception = []sentry.Exception{{
			Type:  fmt.Sprintf("%T", r.Err),
			Value: r.Err.Error(),
		}}
	}
	c.hub.CaptureEvent(event)
}

func (c *sentryClient) AddBreadcrumb(r logger.Record) {
	c.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "log",
		Category:  string(r.Logger),
		Message:   r.Message,
		Level:     sentryLevel(r.Level),
		Timestamp: r.Time,
	}, nil)
}

func (c *sentryClient) Flush(timeout time.Duration) bool {
	return c.hub.Flush(timeout)
}

func sentryLevel(level logger.Level) sentry.Level {
	switch {
	case level >= logger.CRITICAL:
		return sentry.LevelFatal
	case level >= logger.ERROR:
		return sentry.LevelError
	case level >= logger.WARNING:
		return sentry.LevelWarning
	case level >= logger.INFO:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
