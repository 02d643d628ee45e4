package telemetry

// Config controls whether tracing is enabled and how spans are exported.
type Config struct {
	// Enabled turns tracing on. When false, Init installs a noop tracer
	// and every StartSpan call is free.
	Enabled bool

	// ServiceName is reported on the trace resource.
	ServiceName string

	// ServiceVersion is reported on the trace resource.
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint string

	// Insecure disables TLS on the exporter connection.
	Insecure bool

	// SampleRate is the trace sampling ratio, 0.0 to 1.0.
	SampleRate float64
}

// DefaultConfig returns tracing disabled with sane exporter defaults for
// when it is turned on.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "rpcbridge",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
