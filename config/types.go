package config

// Log controls structured logging output.
type Log struct {
	Env        string `toml:"Env"`
	File       string `toml:"File,omitempty"`
	MaxSizeMB  int    `toml:"MaxSizeMB,omitempty"`
	MaxBackups int    `toml:"MaxBackups,omitempty"`
	MaxAgeDays int    `toml:"MaxAgeDays,omitempty"`
	Compress   bool   `toml:"Compress,omitempty"`
}

// Telemetry configures the OTLP exporters. An empty Endpoint disables them.
type Telemetry struct {
	Endpoint string `toml:"Endpoint,omitempty"`
	Insecure bool   `toml:"Insecure,omitempty"`
	Headers  string `toml:"Headers,omitempty"`
	Traces   bool   `toml:"Traces,omitempty"`
	Metrics  bool   `toml:"Metrics,omitempty"`
}

// Enabled reports whether any exporter should be started.
func (t Telemetry) Enabled() bool {
	return t.Endpoint != "" && (t.Traces || t.Metrics)
}
