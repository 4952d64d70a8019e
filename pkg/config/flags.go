package config

// RunFlagsNameMapping maps the settings of a run to their flag names
type RunFlagsNameMapping struct {
	Applications string
	Overrides    string
	DefaultPath  string
	Timeout      string
	Concurrency  string
	Format       string
	Output       string
	MetricsFile  string
}
