package bench

import (
	"errors"
	"fmt"
	"net"
)

// ErrIncompleteStream is returned when the response body ends before the
// terminal summary record arrives.
var ErrIncompleteStream = errors.New("stream ended without a summary record")

// StatusError reports a non-200 response from the generation endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status code %d: %s", e.Code, e.Body)
}

// ConnectionError signals that the server could not be reached at all.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ServerError carries an error record emitted inside the stream.
type ServerError struct{ Msg string }

func (e *ServerError) Error() string { return "server error: " + e.Msg }

// IsStatusError reports whether err is (or wraps) a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsConnectionError reports whether err indicates the server was unreachable.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// isDialFailure distinguishes connect-phase failures from errors that occur
// after the request reached the server.
func isDialFailure(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}
