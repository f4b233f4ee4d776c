package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// FromStatus maps a non-2xx API status to an AppError. message is the API's own
// message when it sent one; a default per status is used otherwise.
func FromStatus(status int, message string) *AppError {
	message = strings.TrimSpace(message)
	code, fallback := classifyStatus(status)
	if message == "" {
		message = fallback
	}
	return &AppError{Code: code, Message: message, Status: status}
}

func classifyStatus(status int) (ErrorCode, string) {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized, "Your session has expired. Please sign in again."
	case status == http.StatusForbidden:
		return ErrCodeForbidden, "You do not have permission to perform this action."
	case status == http.StatusNotFound:
		return ErrCodeNotFound, "The requested record was not found."
	case status == http.StatusConflict:
		return ErrCodeConflict, "The record was changed or already exists."
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrCodeValidation, "The request was rejected as invalid."
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return ErrCodeTimeout, "The server took too long to respond. Please try again."
	case status == http.StatusServiceUnavailable || status == http.StatusBadGateway:
		return ErrCodeUnavailable, "The time-tracking service is unavailable. Please try again."
	default:
		return ErrCodeUpstream, "The time-tracking service returned an unexpected error."
	}
}

// FromTransport maps an error from sending a request (no response received) to an AppError.
// It returns nil for a nil error and passes existing AppErrors through.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	}
	return Wrap(err, ErrCodeUnavailable, "The time-tracking service is unavailable. Please try again.")
}

// HTTPStatus is the status this application answers with for an error.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstream, ErrCodeUnavailable:
		return http.StatusBadGateway
	case ErrCodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
