// internal/logger/provider.go

package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/platform"
)

// flushTimeout bounds how long Close waits for the tracker.
const flushTimeout = 2 * time.Second

// Registrar performs the one-time error-tracking registration. It returns
// nil when tracking ends up disabled and must not fail logger creation.
type Registrar interface {
	Register(ctx context.Context, res platform.Resolution) Hook
}

// Option configures a Provider.
type Option func(*Provider)

// WithProbe sets the host probe used to pick the environment.
func WithProbe(probe platform.Probe) Option {
	return func(p *Provider) { p.probe = probe }
}

// WithRegistrar sets the error-tracking registrar.
func WithRegistrar(r Registrar) Option {
	return func(p *Provider) { p.registrar = r }
}

// WithConsole sets the console sink stream.
func WithConsole(w io.Writer) Option {
	return func(p *Provider) { p.console = w }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithAppLogger sets the logger used for diagnostics about logging itself.
func WithAppLogger(a *AppLogger) Option {
	return func(p *Provider) { p.appLogger = a }
}

// Provider hands out one JobLogger per job name, building it on first use.
type Provider struct {
	mu        sync.Mutex
	loggers   map[Name]*JobLogger
	cfg       *config.Config
	probe     platform.Probe
	registrar Registrar
	console   io.Writer
	now       func() time.Time
	appLogger *AppLogger

	registerOnce sync.Once
	hook         Hook
}

// NewProvider creates a provider. A nil cfg means config.Default().
func NewProvider(cfg *config.Config, opts ...Option) *Provider {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Provider{
		loggers:   make(map[Name]*JobLogger),
		cfg:       cfg,
		probe:     platform.SystemProbe{},
		console:   os.Stderr,
		now:       time.Now,
		appLogger: GetAppLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the logger for name. An empty name adopts the first job in
// Names that already has a logger, or fails with *NotFoundError.
func (p *Provider) Get(name Name) (*JobLogger, error) {
	return p.GetContext(context.Background(), name)
}

// Default is Get("").
func (p *Provider) Default() (*JobLogger, error) {
	return p.Get("")
}

// GetContext is Get with a context for the tracking registration calls.
func (p *Provider) GetContext(ctx context.Context, name Name) (*JobLogger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name == "" {
		for _, known := range Names {
			if lgr, ok := p.loggers[known]; ok {
				return lgr, nil
			}
		}
		return nil, &NotFoundError{Known: Names}
	}

	if !name.Valid() {
		return nil, fmt.Errorf("%w: '%s', must be one of %v", ErrUnknownName, name, Names)
	}

	if lgr, ok := p.loggers[name]; ok {
		return lgr, nil
	}

	res := platform.Resolve(p.probe, p.cfg.Paths)
	lgr, err := p.build(name, res)
	if err != nil {
		return nil, err
	}

	p.registerOnce.Do(func() {
		if p.registrar != nil {
			p.hook = p.registrar.Register(ctx, res)
		}
	})
	lgr.hook = p.hook

	p.loggers[name] = lgr
	return lgr, nil
}

func (p *Provider) build(name Name, res platform.Resolution) (*JobLogger, error) {
	started := p.now()

	lgr := &JobLogger{
		name:       name,
		date:       started.Format("2006-01-02"),
		startTime:  started,
		folderPath: res.DataPath,
		env:        res.Env,
		now:        p.now,
		appLogger:  p.appLogger,
	}
	lgr.SetLevel(DEBUG)

	logDir := filepath.Join(res.DataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	fileSink, err := NewFileSink(FileSinkOptions{
		Path:       filepath.Join(logDir, string(name)+".log"),
		MaxSize:    p.cfg.MaxSizeBytes(),
		MaxBackups: p.cfg.File.MaxBackups,
		Compress:   p.cfg.File.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach file sink for '%s': %w", name, err)
	}

	lgr.sinks = []Sink{NewConsoleSink(p.console, DEBUG), fileSink}
	p.appLogger.Debug("Initialized logger '%s' (env: %s, folder: %s)", name, res.Env, res.DataPath)
	return lgr, nil
}

// Registered returns the names that already have a logger, in Names order.
func (p *Provider) Registered() []Name {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]Name, 0, len(p.loggers))
	for _, n := range Names {
		if _, ok := p.loggers[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Close flushes the tracking hook and closes every logger's sinks. Loggers
// stay registered, writes after Close fail and are reported on the app logger.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hook != nil && !p.hook.Flush(flushTimeout) {
		p.appLogger.Warn("Timed out flushing error tracking events")
	}

	var firstErr error
	for name, lgr := range p.loggers {
		if err := lgr.close(); err != nil {
			p.appLogger.Warn("Error closing logger '%s': %v", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
