package client

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a validoc operation can report.
type Kind int

const (
	// KindIO covers a missing or unreadable local file. Raised before any network use.
	KindIO Kind = iota + 1
	// KindTransport covers any failure to complete the HTTP round trip.
	KindTransport
	// KindProtocol covers a response that arrived but could not be accepted.
	KindProtocol
	// KindVerification is a negative verify outcome, not a failure of the exchange.
	KindVerification
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindVerification:
		return "verification"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrUnexpectedStatus   = errors.New("unexpected status")
	ErrVerificationFailed = errors.New("verification failed")
)

// Error is the single error type returned by Client operations.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// VerificationFailed builds the error used to report a negative verify outcome.
func VerificationFailed() error {
	return &Error{Kind: KindVerification, Op: opVerify, Err: ErrVerificationFailed}
}

func ioError(op string, err error) error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

func transportError(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func statusError(op, status string, code int) error {
	return &Error{
		Kind:       KindProtocol,
		Op:         op,
		StatusCode: code,
		Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, status),
	}
}

func decodeError(op string, err error) error {
	return &Error{Kind: KindProtocol, Op: op, Err: err}
}
