package core

import "fmt"

// ImportErrorKind classifies why a workbook could not be imported.
type ImportErrorKind string

const (
	// KindStructural covers unreadable files, missing sheets and empty sheets.
	KindStructural ImportErrorKind = "structural"
	// KindHeaderNotFound means no row in the search window looked like a header.
	KindHeaderNotFound ImportErrorKind = "header_not_found"
	// KindMissingColumns means a header row was found but some fields had no column.
	KindMissingColumns ImportErrorKind = "missing_columns"
	// KindNoDataRows means every row below the header was skipped.
	KindNoDataRows ImportErrorKind = "no_data_rows"
)

// ImportError is the failure half of an import. Message is shown to the
// operator as-is; Details carries remediation text.
type ImportError struct {
	Kind    ImportErrorKind
	Message string
	Details string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func structuralError(message string, err error) *ImportError {
	return &ImportError{Kind: KindStructural, Message: message, Err: err}
}

const (
	msgNoSheets        = "The uploaded file contains no sheets."
	msgUnreadableSheet = "Could not read the first sheet from the file."
	msgEmptySheet      = "The spreadsheet appears to be empty."
	msgParseFailed     = "Failed to parse the uploaded file."
	msgHeaderNotFound  = "Could not identify a valid header row."
	msgMissingColumns  = "Validation Failed: Missing or incorrect column headers."
	msgNoDataRows      = "No valid data rows found."

	detailsHeaderNotFound = `Please ensure your Excel file contains the standard column headers (e.g., "Sr. No.", "Model", "Min. Voltage (V)").`
	detailsNoDataRows     = `Rows must have a valid "Sr. No." value.`
)
