package core

// Process exit codes. Signal exits use the Unix 128+signo convention.
const (
	// ExitCodeSuccess is a clean shutdown.
	ExitCodeSuccess = 0

	// ExitCodeError is a fatal error during startup or processing.
	ExitCodeError = 1

	// ExitCodeSIGINT is termination by SIGINT (128 + 2).
	ExitCodeSIGINT = 130

	// ExitCodeSIGTERM is termination by SIGTERM (128 + 15).
	ExitCodeSIGTERM = 143
)

// ExitCodeName maps an exit code to a short label for log output.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeSIGINT:
		return "interrupted (SIGINT)"
	case ExitCodeSIGTERM:
		return "terminated (SIGTERM)"
	default:
		return "unknown"
	}
}

// IsSignalExit reports whether the exit code came from a signal.
func IsSignalExit(code int) bool {
	return code == ExitCodeSIGINT || code == ExitCodeSIGTERM
}
