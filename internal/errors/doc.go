// Package errors provides typed errors with error kinds and exit codes for
// anchore-ctl.
//
// # Error Types
//
// Error is the base error type. It carries a Kind, a message and the
// wrapped cause:
//
//	type Error struct {
//	    Kind    Kind   // Failure category
//	    Code    int    // Exit code
//	    Message string // Diagnostic message
//	    Cause   error  // Wrapped error
//	}
//
// # Kinds
//
//	KindUnknown             // Not one of ours
//	KindConfigNotFound      // No config file and no bundled example to seed one
//	KindConfigParse         // Config file exists but cannot be parsed
//	KindDirCreate           // A required directory could not be created
//	KindDestinationMissing  // Restore destination root does not exist
//	KindSourceMissing       // Restore archive path does not exist
//	KindArchiveRead         // gzip/tar stream could not be read or extracted
//	KindArchiveWrite        // gzip/tar stream could not be written
//	KindScriptSync          // A bundled script could not be copied
//
// Every kind has a sentinel for use with errors.Is:
//
//	if errors.Is(err, errors.ErrDestinationMissing) {
//	    ...
//	}
//
// The cause is always reachable through Unwrap, so the original I/O or
// decoding error survives for diagnostics.
//
// # Exit Codes
//
// The command surface exits with 0 on success and 1 on any failure:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
