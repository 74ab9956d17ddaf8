// Package logging provides logging utilities for anchore-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("resolved path", "key", key, "path", path)
//	logging.Warn("failed to record audit event", "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Backing up anchore system to directory %s ...", dir)
//	logging.UserSuccess("Anchore backed up: %s", path)
//	logging.UserWarning("Bundled scripts not found at %s", dir)
//	logging.UserError("operation failed")
//
// Output destinations:
//   - UserInfo, UserSuccess: Stdout (os.Stdout by default)
//   - UserWarning, UserError: Stderr (os.Stderr by default)
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
