// Package statusapitest runs an in-process stand-in for the free-sleep
// status service.
package statusapitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgoj/joblog/internal/statusapi"
)

// Server serves /api/services, /api/settings and /api/deviceStatus from
// in-memory payloads.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	payloads map[string]interface{}
	failing  map[string]bool
	hits     map[string]int
	delay    time.Duration
}

// DefaultPayloads returns a healthy set of responses with Sentry enabled.
func DefaultPayloads() map[string]interface{} {
	return map[string]interface{}{
		statusapi.ServicesPath: gin.H{
			"biometrics": gin.H{
				"enabled":               true,
				"installScriptComplete": true,
			},
			"sentryLogging": gin.H{"enabled": true},
		},
		statusapi.SettingsPath: gin.H{
			"id":       "user-1234",
			"timeZone": "America/New_York",
		},
		statusapi.DeviceStatusPath: gin.H{
			"freeSleep": gin.H{
				"branch":  "main",
				"version": "2.4.0",
			},
			"hubVersion":   "Pod 4",
			"coverVersion": "Pod 4",
		},
	}
}

// New starts a fake service with DefaultPayloads.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		payloads: DefaultPayloads(),
		failing:  make(map[string]bool),
		hits:     make(map[string]int),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	for _, path := range []string{statusapi.ServicesPath, statusapi.SettingsPath, statusapi.DeviceStatusPath} {
		router.GET(path, s.handle(path))
	}

	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) handle(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.hits[path]++
		failing := s.failing[path]
		payload := s.payloads[path]
		delay := s.delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request.Context().Done():
				return
			}
		}

		if failing {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unavailable"})
			return
		}
		if raw, ok := payload.(string); ok {
			c.Data(http.StatusOK, "application/json", []byte(raw))
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

// Fail makes path answer with HTTP 500.
func (s *Server) Fail(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[path] = true
}

// SetPayload replaces the response body for path. A string is sent verbatim.
func (s *Server) SetPayload(path string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[path] = payload
}

// SetSentryEnabled changes the sentryLogging.enabled flag.
func (s *Server) SetSentryEnabled(enabled bool) {
	s.SetPayload(statusapi.ServicesPath, gin.H{"sentryLogging": gin.H{"enabled": enabled}})
}

// SetDelay holds every response for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Hits returns how many requests path has received.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests across all endpoints.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}
