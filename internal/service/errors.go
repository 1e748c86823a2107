package service

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/stash/internal/savings"
)

// ErrorCodeHeader carries the numeric ledger error code on failed calls.
const ErrorCodeHeader = "Stash-Error-Code"

var connectCodes = map[savings.Code]connect.Code{
	savings.CodeDuplicateUser:  connect.CodeAlreadyExists,
	savings.CodeUserNotFound:   connect.CodeNotFound,
	savings.CodeUnauthorized:   connect.CodePermissionDenied,
	savings.CodePlanNotFound:   connect.CodeNotFound,
	savings.CodePlanCompleted:  connect.CodeFailedPrecondition,
	savings.CodeNotGroupMember: connect.CodeFailedPrecondition,
	savings.CodeInvalidAmount:  connect.CodeInvalidArgument,
	savings.CodeWrongPlanType:  connect.CodeFailedPrecondition,
}

// toConnectError maps ledger errors to Connect codes. Anything else is
// reported as internal.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	ledgerErr, ok := savings.AsError(err)
	if !ok {
		return connect.NewError(connect.CodeInternal, err)
	}
	code, ok := connectCodes[ledgerErr.Code]
	if !ok {
		code = connect.CodeUnknown
	}
	out := connect.NewError(code, err)
	out.Meta().Set(ErrorCodeHeader, ledgerErr.Code.String())
	return out
}

// LedgerError recovers the ledger sentinel from an error returned by a
// SavingsService client.
func LedgerError(err error) (*savings.Error, bool) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return nil, false
	}
	code, ok := savings.ParseCode(connectErr.Meta().Get(ErrorCodeHeader))
	if !ok {
		return nil, false
	}
	return savings.ErrorFromCode(code), true
}
