// Package tracking registers job loggers with an error-tracking backend and
// forwards their records to it.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/logger"
	"github.com/orgoj/joblog/internal/platform"
	"github.com/orgoj/joblog/internal/statusapi"
)

// Tag keys taken from the status service.
const (
	TagUserID       = "user_id"
	TagBranch       = "branch"
	TagVersion      = "version"
	TagHubVersion   = "hubVersion"
	TagCoverVersion = "coverVersion"
)

// ErrorTagValue replaces every metadata tag when it cannot be loaded.
const ErrorTagValue = "error"

// MetadataTagKeys lists the tags loaded from the status service.
var MetadataTagKeys = []string{TagUserID, TagBranch, TagVersion, TagHubVersion, TagCoverVersion}

// Tags are attached to every event the backend sends.
type Tags map[string]string

// errorTags returns the metadata tags with every value set to "error".
func errorTags() Tags {
	tags := make(Tags, len(MetadataTagKeys))
	for _, k := range MetadataTagKeys {
		tags[k] = ErrorTagValue
	}
	return tags
}

// StatusSource is the part of the status service the registrar reads.
type StatusSource interface {
	Services(ctx context.Context) (*statusapi.Services, error)
	Settings(ctx context.Context) (*statusapi.Settings, error)
	DeviceStatus(ctx context.Context) (*statusapi.DeviceStatus, error)
}

// Client is an initialized backend.
type Client interface {
	SetTags(tags Tags)
	CaptureEvent(r logger.Record)
	AddBreadcrumb(r logger.Record)
	Flush(timeout time.Duration) bool
}

// ClientFactory builds the backend client.
type ClientFactory func(cfg config.Tracking, res platform.Resolution) (Client, error)

// Option configures a Registrar.
type Option func(*Registrar)

// WithStatusSource replaces the HTTP status client.
func WithStatusSource(s StatusSource) Option {
	return func(r *Registrar) { r.status = s }
}

// WithClientFactory replaces the backend constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Registrar) { r.newClient = f }
}

// WithAppLogger sets where progress and failures are reported.
func WithAppLogger(a *logger.AppLogger) Option {
	return func(r *Registrar) { r.appLogger = a }
}

// Registrar implements logger.Registrar.
type Registrar struct {
	cfg       config.Tracking
	status    StatusSource
	newClient ClientFactory
	appLogger *logger.AppLogger
	runID     string
}

// NewRegistrar creates a registrar for cfg. By default it reads the status
// service at cfg.StatusAPI.BaseURL and builds the configured backend.
func NewRegistrar(cfg *config.Config, opts ...Option) *Registrar {
	r := &Registrar{
		cfg:       cfg.Tracking,
		status:    statusapi.NewClient(cfg.StatusAPI.BaseURL, cfg.Timeout()),
		newClient: NewClient,
		appLogger: logger.GetAppLogger(),
		runID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewClient builds the backend selected by cfg.Backend.
func NewClient(cfg config.Tracking, res platform.Resolution) (Client, error) {
	var (
		client Client
		err    error
	)
	switch cfg.Backend {
	case config.BackendSentry:
		client, err = newSentryClient(cfg, res)
	case config.BackendGelf:
		client, err = newGelfClient(cfg, res)
	default:
		err = fmt.Errorf("unsupported tracking backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Register checks the remote flag, builds the backend, tags it and returns
// the hook that forwards records. It returns nil when tracking is off or the
// backend cannot be built; it never fails logger creation.
func (r *Registrar) Register(ctx context.Context, res platform.Resolution) logger.Hook {
	if r.cfg.Backend == config.BackendNone {
		r.appLogger.Debug("Error tracking disabled by configuration")
		return nil
	}
	if !r.IsEnabled(ctx) {
		r.appLogger.Info("Error tracking disabled by service settings")
		return nil
	}

	tags := r.LoadTags(ctx)

	client, err := r.newClient(r.cfg, res)
	if err != nil {
		r.appLogger.Error("Failed to initialize error tracking (%s): %v", r.cfg.Backend, err)
		return nil
	}

	tags["run_id"] = r.runID
	tags["env"] = string(res.Env)
	if res.Host.Hostname != "" {
		tags["hostname"] = res.Host.Hostname
	}
	client.SetTags(tags)

	r.appLogger.Debug("Error tracking enabled (%s)", r.cfg.Backend)
	return newReporter(client, r.cfg, r.appLogger)
}

// IsEnabled reads sentryLogging.enabled. Any failure counts as enabled.
func (r *Registrar) IsEnabled(ctx context.Context) bool {
	r.appLogger.Debug("Checking if error tracking is enabled...")

	services, err := r.status.Services(ctx)
	if err == nil {
		var enabled bool
		if enabled, err = services.SentryEnabled(); err == nil {
			return enabled
		}
	}

	r.appLogger.Warn("Failed to check if error tracking is enabled, enabling it: %v", err)
	return true
}

// LoadTags reads the user id and device versions. If either request fails
// every metadata tag is "error".
func (r *Registrar) LoadTags(ctx context.Context) Tags {
	r.appLogger.Debug("Getting error tracking tags...")

	tags, err := r.loadTags(ctx)
	if err != nil {
		r.appLogger.Warn("Failed to load error tracking tags: %v", err)
		return errorTags()
	}
	return tags
}

func (r *Registrar) loadTags(ctx context.Context) (Tags, error) {
	settings, err := r.status.Settings(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := settings.UserID()
	if err != nil {
		return nil, err
	}

	status, err := r.status.DeviceStatus(ctx)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return Tags{
		TagUserID:       userID,
		TagBranch:       *status.FreeSleep.Branch,
		TagVersion:      *status.FreeSleep.Version,
		TagHubVersion:   *status.HubVersion,
		TagCoverVersion: *status.CoverVersion,
	}, nil
}

// Ensure Registrar implements logger.Registrar.
var _ logger.Registrar = (*Registrar)(nil)
