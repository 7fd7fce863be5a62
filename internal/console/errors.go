package console

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors mark the broad failure classes the sync command reports
// differently. Wrap tags errors with one of these so callers can use
// errors.Is instead of matching message text.
var (
	// ErrNoEndpoint indicates no console endpoint could be determined.
	ErrNoEndpoint = errors.New("endpoint resolution error")
	// ErrUnreachable indicates the console's inventory could not be read.
	ErrUnreachable = errors.New("console unavailable")
	// ErrSubmission indicates the categorization channel itself failed,
	// as opposed to the console rejecting an individual request.
	ErrSubmission = errors.New("submission channel error")
)

// Wrap builds an error that carries operation context and is tagged with the
// provided sentinel marker. A nil marker falls back to ErrUnreachable.
func Wrap(marker error, operation, message string, err error) error {
	if marker == nil {
		marker = ErrUnreachable
	}
	detail := buildDetail(operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	operation = strings.TrimSpace(operation)
	message = strings.TrimSpace(message)
	switch {
	case operation == "" && message == "":
		return "operation failed"
	case operation == "":
		return message
	case message == "":
		return operation
	default:
		return operation + ": " + message
	}
}
