package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/storage"
	"github.com/mmynk/tripsplitter/internal/trips"
)

// connectError maps a domain error to a Connect status.
func connectError(err error) *connect.Error {
	var validation *ledger.ValidationError
	var code connect.Code
	switch {
	case errors.As(err, &validation),
		errors.Is(err, trips.ErrEmptyName),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrDuplicateName):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrPendingBalance):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, trips.ErrForbidden):
		code = connect.CodePermissionDenied
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
