package tracking

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"gopkg.in/Graylog2/go-gelf.v2/gelf"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/logger"
	"github.com/orgoj/joblog/internal/platform"
)

// Variables for factories to allow mocking in tests
var gelfUDPWriterFactory = gelf.NewUDPWriter
var gelfTCPWriterFactory = gelf.NewTCPWriter

// gelfClient sends error events to Graylog. Breadcrumbs have no GELF
// equivalent and are dropped.
type gelfClient struct {
	mu       sync.Mutex
	writer   gelf.Writer
	hostName string
	tags     Tags
}

func newGelfClient(cfg config.Tracking, res platform.Resolution) (*gelfClient, error) {
	if cfg.Gelf.Host == "" {
		return nil, fmt.Errorf("host is required for GELF tracking")
	}
	if cfg.Gelf.Port <= 0 {
		return nil, fmt.Errorf("valid port is required for GELF tracking")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Gelf.Host, cfg.Gelf.Port)

	var writer gelf.Writer
	if cfg.Gelf.Protocol == "tcp" {
		tcpWriter, err := gelfTCPWriterFactory(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF TCP writer: %w", err)
		}
		writer = tcpWriter
	} else {
		udpWriter, err := gelfUDPWriterFactory(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF UDP writer: %w", err)
		}
		udpWriter.CompressionType = gelf.CompressNone
		writer = udpWriter
	}

	hostName := res.Host.Hostname
	if hostName == "" {
		hostName = "unknown"
	}

	return &gelfClient{writer: writer, hostName: hostName, tags: Tags{}}, nil
}

func (c *gelfClient) SetTags(tags Tags) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range tags {
		c.tags[k] = v
	}
}

func (c *gelfClient) CaptureEvent(r logger.Record) {
	msg := &gelf.Message{
		Version:  "1.1",
		Host:     c.hostName,
		Short:    truncateString(r.Message, maxMessageLength),
		TimeUnix: float64(r.Time.UnixNano()) / 1e9,
		Level:    gelfLevel(r.Level),
		Facility: string(r.Logger),
		Extra: map[string]interface{}{
			"_logger": string(r.Logger),
			"_file":   r.File,
			"_line":   strconv.Itoa(r.Line),
		},
	}
	if r.Err != nil {
		msg.Full = r.Err.Error()
	}

	c.mu.Lock()
	for k, v := range c.tags {
		msg.Extra["_"+k] = v
	}
	c.mu.Unlock()

	// Fire-and-forget, like every other tracking call
	_ = c.writer.WriteMessage(msg)
}

func (c *gelfClient) AddBreadcrumb(logger.Record) {}

// Flush has nothing to wait for, messages are written synchronously.
func (c *gelfClient) Flush(time.Duration) bool {
	return true
}

// gelfLevel maps to syslog severities.
func gelfLevel(level logger.Level) int32 {
	switch {
	case level >= logger.CRITICAL:
		return 2
	case level >= logger.ERROR:
		return 3
	case level >= logger.WARNING:
		return 4
	case level >= logger.INFO:
		return 6
	default:
		return 7
	}
}
