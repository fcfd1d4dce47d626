// Package submit delivers a registration payload to the backend.
//
// Two paths exist. The relay path is the supported one: the relay answers
// with JSON and every failure is reported. The script path posts straight
// to an externally hosted script and never reads the answer, so its best
// possible result is Unconfirmed.
package submit

import (
	"errors"
	"fmt"
)

type Status int

const (
	// Confirmed means the backend acknowledged the rows.
	Confirmed Status = iota + 1
	// Unconfirmed means the request left without a transport error and
	// nothing else is known.
	Unconfirmed
)

func (s Status) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Unconfirmed:
		return "unconfirmed"
	}
	return "unknown"
}

type Result struct {
	Status       Status
	Appended     int
	SubmissionID string
}

type Kind int

const (
	KindTransport Kind = iota + 1
	KindNotConfigured
	KindAuth
	KindUpstream
	KindInvalid
	KindMissingEndpoint
)

var kindMessages = map[Kind]string{
	KindTransport:       "Could not connect to the registration server.",
	KindNotConfigured:   "The registration server is not configured yet. Please try again later.",
	KindAuth:            "The registration server could not sign in to the spreadsheet.",
	KindUpstream:        "The registration server failed to save your registration.",
	KindInvalid:         "The registration is incomplete. Please review the participant details.",
	KindMissingEndpoint: "The registration endpoint is missing from the configuration.",
}

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNotConfigured:
		return "not_configured"
	case KindAuth:
		return "auth_failed"
	case KindUpstream:
		return "upstream_failed"
	case KindInvalid:
		return "invalid_payload"
	case KindMissingEndpoint:
		return "missing_endpoint"
	}
	return "unknown"
}

// Error is what the wizard shows to the user. Message is safe to display,
// Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: kindMessages[kind], Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError classifies any error, unknown ones count as transport failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return NewError(KindTransport, err)
}
