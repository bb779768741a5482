package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Operators can quote the code to support staff for faster diagnosis.
//
// # Import Errors (IMP001-IMP099)
//
// Returned when an uploaded workbook cannot become an import session. The
// message and details come from the parser itself:
//
//	IMP001 - Structural: no sheets, unreadable sheet, empty sheet, unsupported format
//	IMP002 - Header not found: no row in the first 20 names at least 3 fields
//	IMP003 - Missing columns: header row found but some fields have no column
//	IMP004 - No data rows: every row below the header was skipped
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: unknown or expired import session
//	SES002 - Row not found: row index is not in the session
//	SES003 - Row pending: row is being synced and cannot change
//	SES004 - Not retryable: only failed rows can be retried
//	SES005 - Step locked: workflow prerequisite not complete
//
// # Testing Errors (TST001-TST099)
//
//	TST001 - No live reading: the rig has not written a reading
//	TST002 - Row not synced: testing needs a stored master data row
//	TST003 - Already submitted: a result was already stored for the row
//	TST004 - Serial number required
//	TST005 - No master data stored
//
// # Report Errors (RPT001-RPT099)
//
//	RPT001 - Invalid date range: dates must be YYYY-MM-DD and from <= to
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key          Patterns: "duplicate key"
//	DB002 - Unique constraint      Patterns: "unique constraint", "violates unique"
//	DB003 - Not-null constraint    Patterns: "violates not-null"
//	DB004 - Connection refused     Patterns: "connection refused"
//	DB005 - Connection reset       Patterns: "connection reset"
//	DB006 - Timeout                Patterns: "timeout"
//	DB007 - Deadlock               Patterns: "deadlock"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large       Patterns: "request body too large", "file too large"
//	FILE004 - No file              Patterns: "no file provided"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy           Patterns: "too many concurrent uploads"
//	UPL004 - Request cancelled     Patterns: "context canceled"
//	UPL005 - Request timeout       Patterns: "context deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid body          Patterns: "invalid request body"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited         Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Matching
//
// Typed errors (*ImportError and the package sentinels) are matched first
// with errors.As / errors.Is. Everything else falls through to pattern
// matching: case-insensitive strings.Contains, first match wins.

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Details string // Optional remediation detail
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var importCodes = map[ImportErrorKind]string{
	KindStructural:     "IMP001",
	KindHeaderNotFound: "IMP002",
	KindMissingColumns: "IMP003",
	KindNoDataRows:     "IMP004",
}

// sentinelMessages maps package sentinel errors to user messages.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrSessionNotFound, UserMessage{Message: "Import session not found", Action: "The session may have expired. Please upload the file again", Code: "SES001"}},
	{ErrRowNotFound, UserMessage{Message: "Row not found", Action: "Refresh the review table", Code: "SES002"}},
	{ErrRowPending, UserMessage{Message: "Row is being synced", Action: "Wait for the sync to finish", Code: "SES003"}},
	{ErrRowNotRetryable, UserMessage{Message: "Only failed rows can be retried", Action: "Sync the session instead", Code: "SES004"}},
	{ErrStepLocked, UserMessage{Message: "This step is not available yet", Action: "Complete the previous step first", Code: "SES005"}},
	{ErrNoLiveReading, UserMessage{Message: "No live reading available", Action: "Check that the test rig is connected", Code: "TST001"}},
	{ErrRowNotSynced, UserMessage{Message: "Row has not been synced", Action: "Sync the row before testing it", Code: "TST002"}},
	{ErrAlreadySubmitted, UserMessage{Message: "Result already submitted for this row", Action: "Select the next record", Code: "TST003"}},
	{ErrSerialRequired, UserMessage{Message: "Serial number is required", Action: "Enter the unit's serial number", Code: "TST004"}},
	{ErrNoMasterData, UserMessage{Message: "No master data stored", Action: "Import and sync a master data workbook", Code: "TST005"}},
	{ErrInvalidDateRange, UserMessage{Message: "Invalid report date range", Action: "Use YYYY-MM-DD dates with from on or before to", Code: "RPT001"}},
	{ErrTooManyUploads, UserMessage{Message: "System is busy processing other uploads", Action: "Please wait a moment and try again", Code: "UPL002"}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// The first matching pattern wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Database constraint errors
	{"duplicate key", UserMessage{Message: "A record with this ID already exists", Action: "Remove the duplicate row and sync again", Code: "DB001"}},
	{"unique constraint", UserMessage{Message: "This value must be unique but already exists", Action: "Check for duplicate entries in your workbook", Code: "DB002"}},
	{"violates unique", UserMessage{Message: "A duplicate value was found", Action: "Review your data for duplicate key values", Code: "DB002"}},
	{"violates not-null", UserMessage{Message: "A required value is missing", Action: "Fill in the empty cell and sync again", Code: "DB003"}},

	// Database connection errors
	{"connection refused", UserMessage{Message: "Unable to connect to database", Action: "Please try again in a few moments", Code: "DB004"}},
	{"connection reset", UserMessage{Message: "Database connection was interrupted", Action: "Please try again", Code: "DB005"}},
	{"timeout", UserMessage{Message: "Operation timed out", Action: "Please try again later", Code: "DB006"}},
	{"deadlock", UserMessage{Message: "Database was busy with conflicting operations", Action: "Please try again", Code: "DB007"}},

	// File errors
	{"request body too large", UserMessage{Message: "File exceeds maximum size limit", Action: "Split the workbook into smaller files", Code: "FILE001"}},
	{"file too large", UserMessage{Message: "File exceeds maximum size limit", Action: "Split the workbook into smaller files", Code: "FILE001"}},
	{"no file provided", UserMessage{Message: "No file was selected", Action: "Please select an Excel file to upload", Code: "FILE004"}},

	// Request lifecycle
	{"context canceled", UserMessage{Message: "Request was cancelled", Action: "Please try again", Code: "UPL004"}},
	{"context deadline exceeded", UserMessage{Message: "Request timed out", Action: "Please try again", Code: "UPL005"}},

	// Request payload
	{"invalid request body", UserMessage{Message: "Request body is not valid", Action: "Send a JSON object with the expected fields", Code: "REQ001"}},

	// Rate limiting
	{"rate limit", UserMessage{Message: "Too many requests", Action: "Please wait a moment before trying again", Code: "RATE001"}},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(err)
//	// msg.Code == "IMP003" for a workbook with missing columns
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if ie, ok := AsImportError(err); ok {
		return UserMessage{
			Message: ie.Message,
			Details: ie.Details,
			Action:  "Fix the workbook and upload it again",
			Code:    importCodes[ie.Kind],
		}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
