package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConfig     = errors.New("configuration error")
	ErrValidation = errors.New("validation error")
	ErrVendor     = errors.New("vendor error")
	ErrExists     = errors.New("already exists")
)

// VendorError carries the message a remote API answered with.
type VendorError struct {
	Vendor     string
	StatusCode int
	Message    string
}

func (e *VendorError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Vendor, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Vendor, e.StatusCode, e.Message)
}

func (e *VendorError) Unwrap() error {
	return ErrVendor
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Config(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
