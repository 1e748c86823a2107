package savings

import (
	"errors"
	"strconv"
)

// Code is the stable numeric identifier of a ledger error.
// Codes are part of the wire contract and must never be renumbered.
type Code uint32

const (
	CodeDuplicateUser  Code = 1
	CodeUserNotFound   Code = 2
	CodeUnauthorized   Code = 3
	CodePlanNotFound   Code = 4
	CodePlanCompleted  Code = 5
	CodeNotGroupMember Code = 6
	CodeInvalidAmount  Code = 7
	CodeWrongPlanType  Code = 8
)

// Error is a typed ledger failure. Every failed operation returns one of the
// sentinel values below, possibly wrapped with context; compare with errors.Is.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrDuplicateUser  = &Error{Code: CodeDuplicateUser, Message: "user already exists"}
	ErrUserNotFound   = &Error{Code: CodeUserNotFound, Message: "user not found"}
	ErrUnauthorized   = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrPlanNotFound   = &Error{Code: CodePlanNotFound, Message: "plan not found"}
	ErrPlanCompleted  = &Error{Code: CodePlanCompleted, Message: "plan already completed"}
	ErrNotGroupMember = &Error{Code: CodeNotGroupMember, Message: "not a member of this group"}
	ErrInvalidAmount  = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrWrongPlanType  = &Error{Code: CodeWrongPlanType, Message: "wrong plan type"}
)

var byCode = map[Code]*Error{
	CodeDuplicateUser:  ErrDuplicateUser,
	CodeUserNotFound:   ErrUserNotFound,
	CodeUnauthorized:   ErrUnauthorized,
	CodePlanNotFound:   ErrPlanNotFound,
	CodePlanCompleted:  ErrPlanCompleted,
	CodeNotGroupMember: ErrNotGroupMember,
	CodeInvalidAmount:  ErrInvalidAmount,
	CodeWrongPlanType:  ErrWrongPlanType,
}

// AsError returns the ledger error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrorFromCode returns the sentinel for code, or nil for unknown codes.
func ErrorFromCode(code Code) *Error {
	return byCode[code]
}

// ParseCode parses a decimal code as carried in response metadata.
func ParseCode(s string) (Code, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	code := Code(n)
	_, ok := byCode[code]
	return code, ok
}

// String returns the decimal form of the code.
func (c Code) String() string {
	return strconv.FormatUint(uint64(c), 10)
}
