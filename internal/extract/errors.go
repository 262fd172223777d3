package extract

import (
	"errors"
	"fmt"
)

// Kind classifies why text could not be obtained from a document.
type Kind string

const (
	UnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	CorruptDocument   Kind = "CORRUPT_DOCUMENT"
	EmptyContent      Kind = "EMPTY_CONTENT"
	ContentTooShort   Kind = "CONTENT_TOO_SHORT"
)

// Error is returned for every extraction or text validation failure.
type Error struct {
	Kind     Kind
	MimeType string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the user-facing explanation for the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case UnsupportedFormat:
		return fmt.Sprintf("Unsupported file type: %s. Please upload a PDF or DOCX file.", e.MimeType)
	case CorruptDocument:
		return "Failed to extract text from the document. Please make sure the file is not corrupted."
	case EmptyContent:
		return "No text could be extracted from the file. Please make sure the file contains readable text."
	case ContentTooShort:
		return "The extracted text is too short. Please make sure your resume contains sufficient content."
	default:
		return "Failed to process the document."
	}
}

// IsKind reports whether err is an extraction Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
