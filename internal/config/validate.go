package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	name := strings.TrimSpace(cfg.IPC.LogicalName)
	if name == "" {
		return nil, fmt.Errorf("ipc.logical_name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("ipc.logical_name must not contain path separators")
	}
	if cfg.IPC.ReadTimeoutMS < 0 {
		return nil, fmt.Errorf("ipc.read_timeout_ms must be >= 0")
	}
	if cfg.IPC.NotifyTimeoutMS <= 0 {
		return nil, fmt.Errorf("ipc.notify_timeout_ms must be > 0")
	}
	if cfg.IPC.ProbeTimeoutMS <= 0 {
		return nil, fmt.Errorf("ipc.probe_timeout_ms must be > 0")
	}
	if cfg.IPC.ForwardBuffer <= 0 {
		return nil, fmt.Errorf("ipc.forward_buffer must be > 0")
	}
	if err := validateScheme(cfg.OneClick.Scheme); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Paths.WorkDir) == "" {
		return nil, fmt.Errorf("paths.work_dir must not be empty")
	}
	if cfg.Indicator.TimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.timeout_ms must be >= 0")
	}
	if cfg.Indicator.Enable && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.enable=true")
	}
	if _, ok := validLogLevels[strings.ToLower(strings.TrimSpace(cfg.Log.Level))]; !ok {
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if cfg.IPC.ReadTimeoutMS == 0 {
		warnings = append(warnings, Warning{Key: "ipc.read_timeout_ms", Message: "ipc.read_timeout_ms=0: silent clients are never dropped"})
	}

	return warnings, nil
}

// validateScheme follows RFC 3986: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func validateScheme(scheme string) error {
	if scheme == "" {
		return fmt.Errorf("oneclick.scheme must not be empty")
	}
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return fmt.Errorf("oneclick.scheme %q is not a valid URL scheme", scheme)
		}
	}
	return nil
}
