package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMixtapeNotFound    = fmt.Errorf("mixtape not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrClipboard          = fmt.Errorf("clipboard write failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
