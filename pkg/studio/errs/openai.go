package errs

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

const VendorOpenAi = "openai"

// FromOpenAi converts API and request errors returned by go-openai into a
// VendorError. Other errors (transport, context) are returned unchanged.
func FromOpenAi(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &VendorError{
			Vendor:     VendorOpenAi,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		message := "request failed"
		if reqErr.Err != nil {
			message = reqErr.Err.Error()
		}
		return &VendorError{
			Vendor:     VendorOpenAi,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    message,
		}
	}

	return err
}
