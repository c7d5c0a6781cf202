// Package platform works out which runtime environment a job is running in
// and where its data folder lives.
package platform

import (
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/host"

	"github.com/orgoj/joblog/internal/config"
)

// Env is the deployment environment tag.
type Env string

const (
	Local Env = "local"
	Prod  Env = "prod"
)

// Host describes the machine the process runs on.
type Host struct {
	OS       string
	Hostname string
	Platform string
}

// Probe reports the host the process is running on.
type Probe interface {
	Host() Host
}

// hostInfo is swapped out in tests
var hostInfo = host.Info

// SystemProbe asks the operating system through gopsutil and falls back
// to the Go runtime when that fails.
type SystemProbe struct{}

// Host returns the host description.
func (SystemProbe) Host() Host {
	info, err := hostInfo()
	if err != nil || info == nil || info.OS == "" {
		name, _ := os.Hostname()
		return Host{OS: runtime.GOOS, Hostname: name}
	}
	return Host{OS: info.OS, Hostname: info.Hostname, Platform: info.Platform}
}

// StaticProbe always reports the same host.
type StaticProbe Host

// Host returns the fixed host description.
func (p StaticProbe) Host() Host {
	return Host(p)
}

// Resolution is the outcome of environment detection.
type Resolution struct {
	Env      Env
	DataPath string
	Host     Host
}

// Resolve maps a Linux host to prod and everything else to local,
// picking the matching data folder from paths.
func Resolve(probe Probe, paths config.Paths) Resolution {
	h := probe.Host()
	if strings.EqualFold(h.OS, "linux") {
		return Resolution{Env: Prod, DataPath: paths.Prod, Host: h}
	}
	return Resolution{Env: Local, DataPath: paths.Local, Host: h}
}
