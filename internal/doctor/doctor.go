// Package doctor runs readiness diagnostics for config, endpoint, and indicator tooling.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/divamm/internal/config"
	"github.com/rbright/divamm/internal/indicator"
	"github.com/rbright/divamm/internal/ipc"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment and runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{checkConfig(cfg)}

	checks = append(checks, checkWorkDir(cfg.Config.Paths.WorkDir))

	endpointCheck, ep, ok := checkEndpoint(cfg.Config.IPC)
	checks = append(checks, endpointCheck)
	if ok {
		checks = append(checks, checkInstance(ctx, ep, time.Duration(cfg.Config.IPC.ProbeTimeoutMS)*time.Millisecond))
	}

	if cfg.Config.Indicator.Enable {
		checks = append(checks, checkEnv("DBUS_SESSION_BUS_ADDRESS", func(v string) bool {
			return strings.TrimSpace(v) != ""
		}, "session bus address set", "DBUS_SESSION_BUS_ADDRESS is empty; notifications need a session bus"))
		checks = append(checks, checkBinary("busctl", "desktop notifications"))
	}
	if cfg.Config.Indicator.SoundEnable {
		checks = append(checks, checkAudio())
	}

	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	if !cfg.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found; using defaults", cfg.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)}
}

// checkWorkDir creates the work dir when missing and proves it is writable.
func checkWorkDir(dir string) Check {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Check{Name: "paths.work_dir", Pass: false, Message: err.Error()}
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Check{Name: "paths.work_dir", Pass: false, Message: fmt.Sprintf("not writable: %v", err)}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return Check{Name: "paths.work_dir", Pass: true, Message: fmt.Sprintf("writable %s", dir)}
}

func checkEndpoint(cfg config.IPCConfig) (Check, ipc.Endpoint, bool) {
	ep, err := ipc.ResolveConfigured(cfg.LogicalName, cfg.Namespaced, cfg.SocketDir)
	if err != nil {
		return Check{Name: "ipc.endpoint", Pass: false, Message: err.Error()}, ipc.Endpoint{}, false
	}
	return Check{Name: "ipc.endpoint", Pass: true, Message: fmt.Sprintf("resolved %s", ep)}, ep, true
}

// checkInstance is informational: a running instance is not a failure.
func checkInstance(ctx context.Context, ep ipc.Endpoint, timeout time.Duration) Check {
	alive, err := ipc.Probe(ctx, ep, timeout)
	if err != nil {
		return Check{Name: "ipc.instance", Pass: false, Message: fmt.Sprintf("probe failed: %v", err)}
	}
	if alive {
		return Check{Name: "ipc.instance", Pass: true, Message: "running instance owns the endpoint"}
	}
	return Check{Name: "ipc.instance", Pass: true, Message: "no running instance"}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

func checkAudio() Check {
	sink, err := indicator.CheckAudio()
	if err != nil {
		return Check{Name: "audio.sink", Pass: false, Message: err.Error()}
	}
	return Check{Name: "audio.sink", Pass: true, Message: fmt.Sprintf("default sink %q", sink)}
}
