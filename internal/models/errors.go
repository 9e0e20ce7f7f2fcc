package models

import "errors"

var (
	// ErrInvalidInput is returned when a request fails validation before any
	// pipeline stage runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPipelineTimeout is returned when the whole analysis run exceeds its
	// deadline. Partial results are discarded.
	ErrPipelineTimeout = errors.New("analysis pipeline timed out")

	// ErrSourceUnavailable marks a collaborator that could not be reached
	// after retries. Stages translate it into fallback records.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedResponse marks a collaborator response that could not be
	// parsed into the expected shape.
	ErrMalformedResponse = errors.New("malformed source response")

	// ErrRateLimited marks a throttling response from an external API.
	ErrRateLimited = errors.New("rate limited")
)
