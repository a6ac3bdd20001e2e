package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// upstreamErrorBody covers the error shapes seen from upstream APIs: the
// service envelope {"error":{"code","message"}} and a bare {"message"}.
type upstreamErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var body upstreamErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil {
		switch {
		case body.Error != nil && body.Error.Message != "":
			message = body.Error.Message
		case body.Message != "":
			message = body.Message
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return mapUpstreamError(resp.StatusCode, message, serviceName)
}

// mapUpstreamError translates an upstream HTTP status into an AppError.
func mapUpstreamError(status int, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: qualifiedMsg,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusServiceUnavailable, status == http.StatusTooManyRequests:
		return apperrors.ServiceUnavailable(qualifiedMsg)
	case status >= 500:
		return apperrors.BadGateway(fmt.Sprintf("%s server error (%d): %s", serviceName, status, message))
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualifiedMsg,
			Status:  http.StatusBadGateway,
			Err:     apperrors.ErrBadGateway,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
