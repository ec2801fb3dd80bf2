// Package exitcode provides standardized exit codes for semcast
package exitcode

// Exit codes for the semcast CLI. Every validation or commit failure exits
// with GeneralError; UsageError is reserved for malformed invocations.
const (
	Success      = 0
	GeneralError = 1
	UsageError   = 2
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error"
	default:
		return "Unknown error"
	}
}
