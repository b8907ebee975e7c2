package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "veriflow/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore
	// encoding errors. The body may be incomplete, but headers are sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// Unknown errors map to 500 with a generic envelope so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := dErrors.CodeInternal
	message := "internal error"

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status = statusFor(domainErr.Code)
		code = domainErr.Code
		if domainErr.Message != "" {
			message = domainErr.Message
		}
	}

	WriteJSON(w, status, map[string]string{
		"error":             string(code),
		"error_description": message,
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
