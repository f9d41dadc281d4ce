package task

import "errors"

// Code tags a task failure so it survives the request-reply hop between
// modules.
type Code string

const (
	CodeNotFound       Code = "not_found"
	CodeInvalidPayload Code = "invalid_payload"
	CodeInvalidID      Code = "invalid_id"
	CodeInvalidInput   Code = "invalid_input"
	CodeStore          Code = "store_error"
)

// Error is a tagged task failure. Two Errors match under errors.Is when their
// codes are equal.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = &Error{Code: CodeNotFound, Message: "task not found"}
	// ErrInvalidPayload is returned for an update that changes nothing.
	ErrInvalidPayload = &Error{Code: CodeInvalidPayload, Message: "invalid payload"}
	// ErrInvalidID is returned when a task id is not a UUID.
	ErrInvalidID = &Error{Code: CodeInvalidID, Message: "task id is not a valid UUID"}
)

func invalidInput(err error) *Error {
	return &Error{Code: CodeInvalidInput, Message: err.Error(), Err: err}
}

// storeFailure tags an unexpected store error, keeping its text as the message.
func storeFailure(err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Code: CodeStore, Message: err.Error(), Err: err}
}

// Failure is the serialisable form of an Error carried inside service
// responses.
type Failure struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func toFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return &Failure{Code: te.Code, Message: te.Message}
	}
	return &Failure{Code: CodeStore, Message: err.Error()}
}

// Err converts the failure back into a tagged Error.
func (f *Failure) Err() error {
	if f == nil {
		return nil
	}
	return &Error{Code: f.Code, Message: f.Message}
}
