package errors

import (
	"errors"
	"fmt"
)

// Exit codes for anchore-ctl
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigNotFound
	KindConfigParse
	KindDirCreate
	KindDestinationMissing
	KindSourceMissing
	KindArchiveRead
	KindArchiveWrite
	KindScriptSync
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindConfigNotFound:     "config-not-found",
	KindConfigParse:        "config-parse-error",
	KindDirCreate:          "directory-create-error",
	KindDestinationMissing: "destination-missing",
	KindSourceMissing:      "source-missing",
	KindArchiveRead:        "archive-read-error",
	KindArchiveWrite:       "archive-write-error",
	KindScriptSync:         "script-sync-copy-error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrConfigNotFound     = &Error{Kind: KindConfigNotFound}
	ErrConfigParse        = &Error{Kind: KindConfigParse}
	ErrDirCreate          = &Error{Kind: KindDirCreate}
	ErrDestinationMissing = &Error{Kind: KindDestinationMissing}
	ErrSourceMissing      = &Error{Kind: KindSourceMissing}
	ErrArchiveRead        = &Error{Kind: KindArchiveRead}
	ErrArchiveWrite       = &Error{Kind: KindArchiveWrite}
	ErrScriptSync         = &Error{Kind: KindScriptSync}
)

// Error is the base error type for anchore-ctl
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ExitCode returns the exit code for this error
func (e *Error) ExitCode() int {
	if e.Code == 0 {
		return ExitGeneralError
	}
	return e.Code
}

// New creates a new Error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    ExitGeneralError,
		Message: message,
	}
}

// Wrap wraps an existing error with an Error of the given kind
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    ExitGeneralError,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigNotFound returns an error for a configuration that cannot be located
func ConfigNotFound(path string, cause error) *Error {
	return Wrap(KindConfigNotFound, fmt.Sprintf("config not found: %s", path), cause)
}

// ConfigParse returns an error for a config file that cannot be parsed
func ConfigParse(path string, cause error) *Error {
	return Wrap(KindConfigParse, fmt.Sprintf("failed to parse config %s", path), cause)
}

// DirCreate returns an error for a directory that could not be created
func DirCreate(path string, cause error) *Error {
	return Wrap(KindDirCreate, fmt.Sprintf("failed to create directory %s", path), cause)
}

// DestinationMissing returns an error for a restore root that does not exist
func DestinationMissing(path string) *Error {
	return New(KindDestinationMissing, fmt.Sprintf("destination root dir does not exist: %s", path))
}

// SourceMissing returns an error for a backup file that does not exist
func SourceMissing(path string) *Error {
	return New(KindSourceMissing, fmt.Sprintf("backup file not found: %s", path))
}

// ArchiveRead returns an error for a failure reading or extracting an archive
func ArchiveRead(message string, cause error) *Error {
	return Wrap(KindArchiveRead, message, cause)
}

// ArchiveWrite returns an error for a failure writing an archive
func ArchiveWrite(message string, cause error) *Error {
	return Wrap(KindArchiveWrite, message, cause)
}

// ScriptSync returns an error for a script that could not be copied
func ScriptSync(name string, cause error) *Error {
	return Wrap(KindScriptSync, fmt.Sprintf("failed to sync script %s", name), cause)
}

// OperationFailed is the generic failure surfaced at the command boundary.
// The original error stays in the chain.
func OperationFailed(cause error) *Error {
	return &Error{
		Kind:    KindOf(cause),
		Code:    ExitGeneralError,
		Message: "operation failed",
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
