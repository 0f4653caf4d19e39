package domain

import "errors"

var (
	// ErrInvalidConfig signals a malformed classifier configuration.
	ErrInvalidConfig = errors.New("invalid classifier configuration")
	// ErrEmptyCategorySet signals a category set with no members.
	ErrEmptyCategorySet = errors.New("empty category set")
	// ErrUnknownCategory signals a reference to a category outside the configured set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidInput signals malformed classify input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrScoreOutOfRange signals a semantic score outside [0,1].
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrChannelNotFound signals a missing channel record.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrAlertNotFound signals a missing alert record.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrScorerUnavailable signals a semantic scorer failure.
	ErrScorerUnavailable = errors.New("scorer unavailable")
)
