package excel

import "errors"

var (
	// ErrHeaderNotFound is returned when no header row appears within the
	// scanned leading rows of the worksheet.
	ErrHeaderNotFound = errors.New("budget sheet header row not found")

	// ErrUnsupportedFile is returned for uploads that are not xlsx workbooks.
	ErrUnsupportedFile = errors.New("unsupported spreadsheet file")

	// ErrSheetNotFound is returned when the configured worksheet is missing.
	ErrSheetNotFound = errors.New("worksheet not found")
)
