package core

// error_messages.go maps technical errors to messages users can act on.
//
// Codes by category:
//
//	DB001-DB004    database connectivity and timeouts
//	FILE001-FILE005 upload contents (size, format, empty)
//	IMP001-IMP006  import requests (unknown import or column, busy, cancelled)
//	REQ001         malformed request body or parameters
//	RATE001        request throttling
//	ERR000         fallback; the technical error is in the server log
//
// Patterns are matched case-insensitively with strings.Contains and the first match
// wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tsimport/internal/ingest"
)

// Sentinel errors returned by Service. Their text is chosen to hit a pattern below.
var (
	ErrImportNotFound = errors.New("import not found")
	ErrUnknownColumn  = errors.New("column not found")
	ErrEmptyFile      = errors.New("empty file")
	ErrNoDataRows     = errors.New("no data rows")
	ErrFileTooLarge   = errors.New("file too large")
	ErrNoFile         = errors.New("no file provided")
)

// UserMessage is user-facing error text with a support code.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Import requests
	{"import not found", UserMessage{"Import not found", "It may have been deleted. Refresh the import list", "IMP001"}},
	{"too many concurrent imports", UserMessage{"The server is busy with other imports", "Please wait a moment and try again", "IMP002"}},
	{"time column not found", UserMessage{"The chosen time column is not in the file header", "Check the column name against the first line of the file", "IMP003"}},
	{"column not found", UserMessage{"Column not found", "Check the column position in the import details", "IMP003"}},
	{"time format requires a time column", UserMessage{"A time format was given without a time column", "Name the column the format applies to", "IMP004"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "IMP005"}},
	{"context deadline exceeded", UserMessage{"Import timed out", "Try a smaller file or try again later", "IMP006"}},

	// File contents
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Split the file into smaller parts", "FILE001"}},
	{"request body too large", UserMessage{"File exceeds the maximum upload size", "Split the file into smaller parts", "FILE001"}},
	{"parse error", UserMessage{"File is not valid delimited text", "Check quoting and that every row uses the same delimiter", "FILE002"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Upload a file with a header row and data rows", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Select a CSV file to import", "FILE004"}},
	{"no data rows", UserMessage{"The file has a header but no data", "Upload a file with at least one data row", "FILE005"}},

	// Database
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB001"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB002"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB003"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB004"}},

	{"invalid request", UserMessage{"The request could not be understood", "Check the request body and parameters", "REQ001"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError returns the user message for the first pattern found in err's text, or the
// ERR000 fallback. A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a specific pattern rather than the fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError carries a technical error for logs and a mapped message for display.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}

// translateIngestError converts pipeline errors into the service's sentinels.
func translateIngestError(err error) error {
	switch {
	case errors.Is(err, ingest.ErrEmptyInput):
		return ErrEmptyFile
	case errors.Is(err, ingest.ErrNoDataRows):
		return ErrNoDataRows
	default:
		return err
	}
}
