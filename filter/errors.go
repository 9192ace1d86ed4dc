package filter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is matched by every InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflictingConfiguration is matched by every ConflictingConfigurationError.
	ErrConflictingConfiguration = errors.New("conflicting configuration")
)

// InvalidArgumentError is returned when an untyped input has the wrong shape.
type InvalidArgumentError struct {
	Message string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// ConflictingConfigurationError is returned when options for the "where" clause
// are combined with options for the "order" clause.
type ConflictingConfigurationError struct {
	Filter []string
	Order  []string
}

func (e ConflictingConfigurationError) Error() string {
	return fmt.Sprintf("conflicting configuration: order options (%s) cannot be used with filter options (%s)",
		strings.Join(e.Order, ", "), strings.Join(e.Filter, ", "))
}

func (e ConflictingConfigurationError) Is(target error) bool {
	return target == ErrConflictingConfiguration
}
