package session

import (
	"errors"

	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/ros2"
)

// Severity decides how a failed action is presented to the operator.
type Severity int

const (
	// SeverityWarning covers unmet preconditions and a busy playback slot.
	SeverityWarning Severity = iota
	// SeverityError covers external tool failures, bad profile files and I/O.
	SeverityError
)

// Classify maps an error from a Session operation to its severity.
func Classify(err error) Severity {
	switch {
	case errors.Is(err, ErrNoBag),
		errors.Is(err, playback.ErrNoTopics),
		errors.Is(err, playback.ErrAlreadyRunning),
		errors.Is(err, playback.ErrNotRunning):
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Title returns the dialog title for err.
func Title(err error) string {
	var cmdErr *ros2.CommandError
	switch {
	case errors.Is(err, ErrNoBag):
		return "No Bag Selected"
	case errors.Is(err, playback.ErrNoTopics):
		return "No Topics Selected"
	case errors.Is(err, playback.ErrAlreadyRunning):
		return "Playback Running"
	case errors.Is(err, playback.ErrNotRunning):
		return "Not Playing"
	case errors.Is(err, ErrUnknownProfile):
		return "Unknown Profile"
	case errors.Is(err, ErrProfileLoad):
		return "YAML Load Error"
	case errors.As(err, &cmdErr):
		return "Failed to Read Bag Info"
	default:
		return "Error"
	}
}

// Message returns the dialog body for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoBag):
		return "Please select a bag file first."
	case errors.Is(err, playback.ErrNoTopics):
		return "Please check at least one topic to play."
	case errors.Is(err, playback.ErrAlreadyRunning):
		return "Bag playback is already running."
	case errors.Is(err, playback.ErrNotRunning):
		return "Bag playback is not running."
	default:
		return err.Error()
	}
}
