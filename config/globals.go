package config

// GlobalFlags contains common flags used across commands
type GlobalFlags struct {
	// Backend selection: "asc", "fad", or empty for all configured.
	Provider string

	// Output and diagnostics
	Format     string
	ConfigPath string
	Verbose    bool
	NoColor    bool

	// Backend credentials, merged from flags, environment, and the
	// config file before any command runs.
	Credentials Credentials
}

// Global is the shared instance of GlobalFlags
var Global = GlobalFlags{}
