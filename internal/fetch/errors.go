package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrPageNotFound reports that the upstream article does not exist (HTTP 404).
var ErrPageNotFound = errors.New("page not found")

// StatusError is returned when upstream answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func newStatusError(url string, code int) *StatusError {
	return &StatusError{URL: url, StatusCode: code}
}

// Error formats the failure the way HTTP client libraries usually report a
// failed status check, e.g. "500 Server Error: Internal Server Error for url: ...".
func (e *StatusError) Error() string {
	class := "Client"
	if e.StatusCode >= 500 {
		class = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, class, http.StatusText(e.StatusCode), e.URL)
}

// Is makes errors.Is(err, ErrPageNotFound) true for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrPageNotFound && e.StatusCode == http.StatusNotFound
}

// TransportError wraps network-level failures: dial, TLS, timeouts, reads.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was caused by a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
