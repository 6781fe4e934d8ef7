// Package validation provides common validation utilities.
package validation

import (
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return errs.InvalidOptionf("expected output format of %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateRowLimit checks the number of ledger rows requested for display; 0
// shows every row.
func ValidateRowLimit(rows int) error {
	if rows < 0 {
		return errs.OutOfRangef("row limit must not be negative, got %d", rows)
	}
	return nil
}
