package platform

import (
	"errors"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/host"
	"github.com/stretchr/testify/assert"

	"github.com/orgoj/joblog/internal/config"
)

func TestResolve(t *testing.T) {
	paths := config.Paths{Prod: "/persistent/free-sleep-data/", Local: "/tmp/dev-data/"}

	tests := []struct {
		name     string
		os       string
		wantEnv  Env
		wantPath string
	}{
		{"linux is prod", "linux", Prod, "/persistent/free-sleep-data/"},
		{"mixed case linux", "Linux", Prod, "/persistent/free-sleep-data/"},
		{"darwin is local", "darwin", Local, "/tmp/dev-data/"},
		{"windows is local", "windows", Local, "/tmp/dev-data/"},
		{"unknown is local", "", Local, "/tmp/dev-data/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(StaticProbe{OS: tt.os, Hostname: "pod"}, paths)
			assert.Equal(t, tt.wantEnv, res.Env)
			assert.Equal(t, tt.wantPath, res.DataPath)
			assert.Equal(t, "pod", res.Host.Hostname)
		})
	}
}

func TestSystemProbe(t *testing.T) {
	orig := hostInfo
	t.Cleanup(func() { hostInfo = orig })

	t.Run("uses gopsutil host info", func(t *testing.T) {
		hostInfo = func() (*host.InfoStat, error) {
			return &host.InfoStat{OS: "linux", Hostname: "pod-1", Platform: "debian"}, nil
		}
		assert.Equal(t, Host{OS: "linux", Hostname: "pod-1", Platform: "debian"}, SystemProbe{}.Host())
	})

	t.Run("falls back to runtime on error", func(t *testing.T) {
		hostInfo = func() (*host.InfoStat, error) {
			return nil, errors.New("no /proc")
		}
		assert.Equal(t, runtime.GOOS, SystemProbe{}.Host().OS)
	})
}
