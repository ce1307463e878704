package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// ErrInFlight is returned when the same operation is already running for the caller.
var ErrInFlight = errors.New("operation already in progress")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIErrorKind classifies a failed backend call.
type APIErrorKind string

const (
	KindNetwork      APIErrorKind = "network"
	KindUnauthorized APIErrorKind = "unauthorized"
	KindNotFound     APIErrorKind = "not_found"
	KindRejected     APIErrorKind = "rejected"
	KindServer       APIErrorKind = "server"
	KindDecode       APIErrorKind = "decode"
)

const inFlightMessage = "جارٍ تنفيذ العملية، يرجى الانتظار"

var genericMessages = map[APIErrorKind]string{
	KindNetwork:      "تعذر الاتصال بالخادم. حاول مرة أخرى.",
	KindUnauthorized: "انتهت الجلسة، يرجى تسجيل الدخول مجددًا",
	KindNotFound:     "العنصر المطلوب غير موجود",
	KindRejected:     "تم رفض الطلب من الخادم",
	KindServer:       "حدث خطأ في الخادم. حاول مرة أخرى.",
	KindDecode:       "لم نتمكن من قراءة البيانات. حاول مرة أخرى.",
}

// APIError is the only error type returned by failed backend calls.
// Message is the server-supplied message, empty when the server sent none.
type APIError struct {
	Kind    APIErrorKind
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func NewAPIError(kind APIErrorKind, status int, msg string, err error) *APIError {
	return &APIError{Kind: kind, Status: status, Message: msg, Err: err}
}

// KindForStatus maps a non-2xx HTTP status to an APIErrorKind.
func KindForStatus(status int) APIErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindRejected
	}
}

func (err *APIError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return genericMessages[err.Kind]
}

func (err *APIError) Unwrap() error {
	return err.Err
}

// AsAPIError finds the first *APIError in err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a backend rejection of the session token.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindUnauthorized
}

// ErrorMessage returns the human-readable message for err: the server-supplied one first,
// then fallback, then the generic text of the error kind.
func ErrorMessage(err error, fallback string) string {
	if errors.Cause(err) == ErrInFlight {
		return inFlightMessage
	}
	apiErr, ok := AsAPIError(err)
	if ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback != "" {
		return fallback
	}
	if ok {
		return apiErr.Error()
	}
	return genericMessages[KindServer]
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
