package tracking

import (
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/logger"
	"github.com/orgoj/joblog/internal/platform"
)

func TestNewSentryClient(t *testing.T) {
	cfg := config.Default().Tracking
	res := platform.Resolution{Env: platform.Local, Host: platform.Host{Hostname: "laptop"}}

	client, err := newSentryClient(cfg, res)
	require.NoError(t, err)

	opts := client.hub.Client().Options()
	assert.Equal(t, config.DefaultSentryDSN, opts.Dsn)
	assert.False(t, opts.SendDefaultPII)
	assert.Equal(t, "local", opts.Environment)
	assert.Equal(t, "laptop", opts.ServerName)

	// Nothing queued, flushing returns straight away
	client.SetTags(Tags{TagUserID: "user-1234"})
	client.AddBreadcrumb(rec(logger.INFO, "started"))
	assert.True(t, client.Flush(100*time.Millisecond))
}

func TestNewSentryClient_InvalidDSN(t *testing.T) {
	cfg := config.Tracking{Backend: config.BackendSentry, DSN: "not a dsn"}
	_, err := NewClient(cfg, platform.Resolution{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create sentry client")
}

func TestSentryLevel(t *testing.T) {
	tests := []struct {
		level    logger.Level
		expected sentry.Level
	}{
		{logger.DEBUG, sentry.LevelDebug},
		{logger.INFO, sentry.LevelInfo},
		{logger.WARNING, sentry.LevelWarning},
		{logger.ERROR, sentry.LevelError},
		{logger.CRITICAL, sentry.LevelFatal},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, sentryLevel(tt.level))
		})
	}
}
