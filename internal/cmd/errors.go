package cmd

import (
	"errors"
	"fmt"
)

// usageError marks bad invocations so the entrypoint can exit with the
// usage code instead of the general one.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// IsUsageError reports whether err came from bad command usage.
func IsUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue)
}
