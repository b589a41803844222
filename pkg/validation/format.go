// Package validation provides common validation utilities.
package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/vehicle-loan/pkg/constants"
)

// ErrInvalidOutputFormat is returned for an unsupported output format.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("%w: expected output format of %s or %s, got %s", ErrInvalidOutputFormat,
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}
