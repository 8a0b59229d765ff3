package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/assettrack/internal/models"
)

// toConnectError maps domain errors onto Connect status codes.
func toConnectError(err error) *connect.Error {
	var code connect.Code
	switch {
	case errors.Is(err, models.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, models.ErrDuplicate):
		code = connect.CodeAlreadyExists
	case errors.Is(err, models.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, models.ErrAlreadyAllocated),
		errors.Is(err, models.ErrNotAllocated),
		errors.Is(err, models.ErrReferentialConflict):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
