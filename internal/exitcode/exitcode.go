// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, invalid title).
	UserError = 1

	// ConfigError indicates an auth or configuration error.
	ConfigError = 2

	// StoreError indicates the durable store could not be opened or written.
	StoreError = 3
)
