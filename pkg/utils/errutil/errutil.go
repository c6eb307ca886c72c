package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/dosecal/dosecal/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// StatusOf maps an error to an HTTP status code via its goerr tags.
// Partial writes map to 500: the caller must not mistake them for a
// client error, and the distinguishing detail stays in the log.
func StatusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.TagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.TagNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Handle logs the error with a message and returns it unchanged.
// This function ensures that all errors, especially 5xx errors, are
// properly logged with their goerr values and stack.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	return err
}

// HandleHTTP logs the error and writes an HTTP error response with the
// status derived from the error's tags.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	statusCode := StatusOf(err)
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	http.Error(w, err.Error(), statusCode)
}
