package detector

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is a non-2xx answer from the service.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Status     string
	// Message is the server's "error" field, when the body carried one.
	Message string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
}

// ApplicationError is a 2xx answer whose payload reported success=false.
type ApplicationError struct {
	Endpoint string
	Message  string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// UserMessage renders err for display: application errors verbatim, transport
// errors as a generic message carrying the HTTP status.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		status := strings.TrimSpace(tErr.Status)
		if status == "" {
			status = fmt.Sprintf("%d", tErr.StatusCode)
		}
		return fmt.Sprintf("server returned %s", status)
	}
	return fmt.Sprintf("could not reach the detection service: %v", err)
}
