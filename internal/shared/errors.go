package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog query errors
	ErrInvalidParameter     = fmt.Errorf("invalid parameter")
	ErrParameterNotInteger  = fmt.Errorf("%w: page and limit must be integers", ErrInvalidParameter)
	ErrParameterNotPositive = fmt.Errorf("%w: page and limit must be greater than zero", ErrInvalidParameter)
	ErrNotFound             = fmt.Errorf("not found")

	// Rating errors
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrInvalidRange = fmt.Errorf("rating out of range")

	// Storage errors
	ErrMalformedTable  = fmt.Errorf("malformed table")
	ErrPersistence     = fmt.Errorf("failed to persist table")
	ErrHistoryDisabled = fmt.Errorf("rating history disabled")

	// CLI argument errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
