package ocr

import (
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindMissingInput ErrorKind = iota + 1
	KindInvalidFormat
	KindDecode
	KindEngine
	KindInsufficientDigits
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindInvalidFormat:
		return "invalid_format"
	case KindDecode:
		return "decode"
	case KindEngine:
		return "engine"
	case KindInsufficientDigits:
		return "insufficient_digits"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RecognitionError is returned by ReadDigits. Error() is the message shown
// to API clients.
type RecognitionError struct {
	Kind    ErrorKind
	Partial string // digits that were recognized, for KindInsufficientDigits
	Err     error
}

func (e *RecognitionError) Error() string {
	switch e.Kind {
	case KindMissingInput:
		return "Missing imageData"
	case KindInvalidFormat:
		return "Invalid imageData format"
	case KindInsufficientDigits:
		return "OCR failed to recognize 4 digits. Recognized: " + e.Partial
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "An unexpected error occurred during OCR processing."
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// StatusCode maps the kind to the HTTP status returned by the API.
func (e *RecognitionError) StatusCode() int {
	switch e.Kind {
	case KindMissingInput, KindInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
