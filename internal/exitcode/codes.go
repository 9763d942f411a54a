// Package exitcode defines named exit codes for the storyboard CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

// Exit code constants.
const (
	Success          = 0   // Frame generated and saved
	Error            = 1   // Invalid args, file not found, misconfiguration
	GenerationFailed = 2   // API rejected the request or retries were exhausted
	Interrupted      = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case GenerationFailed:
		return "GenerationFailed"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
