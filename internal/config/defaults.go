package config

import (
	"os"
	"path/filepath"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		IPC: IPCConfig{
			LogicalName:     "rust4diva.sock",
			Namespaced:      true,
			ReadTimeoutMS:   5000,
			NotifyTimeoutMS: 2000,
			ProbeTimeoutMS:  150,
			ForwardBuffer:   64,
		},
		OneClick: OneClickConfig{Scheme: "divamodmanager"},
		Paths:    PathsConfig{WorkDir: filepath.Join(os.TempDir(), "divamm")},
		Indicator: IndicatorConfig{
			Enable:         true,
			SoundEnable:    true,
			DesktopAppName: "divamm",
			TimeoutMS:      4000,
		},
		Log: LogConfig{Level: "info"},
	}
}
