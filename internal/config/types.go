// Package config resolves, parses, validates, and defaults divamm configuration.
package config

// Config is the fully materialized runtime configuration used by divamm.
type Config struct {
	IPC       IPCConfig       `yaml:"ipc"`
	OneClick  OneClickConfig  `yaml:"oneclick"`
	Paths     PathsConfig     `yaml:"paths"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Log       LogConfig       `yaml:"log"`
	UI        UIConfig        `yaml:"ui"`
}

// IPCConfig controls the single-instance handoff endpoint.
type IPCConfig struct {
	LogicalName     string `yaml:"logical_name"`
	Namespaced      bool   `yaml:"namespaced"`        // use an abstract endpoint when the platform has one
	SocketDir       string `yaml:"socket_dir"`        // socket-file fallback dir (empty = system temp)
	ReadTimeoutMS   int    `yaml:"read_timeout_ms"`   // 0 = never drop silent clients
	NotifyTimeoutMS int    `yaml:"notify_timeout_ms"` // secondary-launch handoff deadline
	ProbeTimeoutMS  int    `yaml:"probe_timeout_ms"`  // stale socket / status probe
	ForwardBuffer   int    `yaml:"forward_buffer"`
}

// OneClickConfig controls which command-line argument counts as a one-click URL.
type OneClickConfig struct {
	Scheme string `yaml:"scheme"`
}

// PathsConfig controls application-owned directories.
type PathsConfig struct {
	WorkDir string `yaml:"work_dir"`
}

// IndicatorConfig controls delivery notifications and audio cues.
type IndicatorConfig struct {
	Enable         bool   `yaml:"enable"`
	SoundEnable    bool   `yaml:"sound_enable"`
	DesktopAppName string `yaml:"desktop_app_name"`
	TimeoutMS      int    `yaml:"timeout_ms"`
}

// LogConfig controls runtime log verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// UIConfig controls the front-end wired to one-click deliveries.
type UIConfig struct {
	Headless bool `yaml:"headless"`
}

// Warning is a non-fatal parse/validation message.
// Key is the dotted config key it concerns; Line is its 1-based line in the
// config file, or 0 when the value came from defaults.
type Warning struct {
	Key     string
	Line    int
	Message string
}
