package analyses

import "errors"

var (
	// ErrAnalysisNotFound is returned when no record has the requested ID
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrInvalidID is returned for an empty record ID
	ErrInvalidID = errors.New("invalid analysis ID")

	// ErrInvalidStatus is returned when filtering by an unknown status
	ErrInvalidStatus = errors.New("invalid analysis status")

	// ErrHistoryDisabled is returned by history queries when no store is configured
	ErrHistoryDisabled = errors.New("analysis history is disabled")
)
