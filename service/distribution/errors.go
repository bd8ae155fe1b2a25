package distribution

import (
	"github.com/pkg/errors"
)

// ErrorCode identifies a policy violation. Codes are stable and start at 6000.
type ErrorCode uint32

const (
	ErrorCode_InvalidSignature ErrorCode = 6000 + iota
	ErrorCode_ExpiredSignature
	ErrorCode_Unauthorized
	ErrorCode_InvalidPaymentToken
	ErrorCode_InvalidPaymentAmount
	ErrorCode_PaymentTokenNotConfigured
	ErrorCode_InsufficientFunds
	ErrorCode_SystemPaused
	ErrorCode_InvalidInput
	ErrorCode_MathOverflow
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_InvalidSignature:          "InvalidSignature",
	ErrorCode_ExpiredSignature:          "ExpiredSignature",
	ErrorCode_Unauthorized:              "Unauthorized",
	ErrorCode_InvalidPaymentToken:       "InvalidPaymentToken",
	ErrorCode_InvalidPaymentAmount:      "InvalidPaymentAmount",
	ErrorCode_PaymentTokenNotConfigured: "PaymentTokenNotConfigured",
	ErrorCode_InsufficientFunds:         "InsufficientFunds",
	ErrorCode_SystemPaused:              "SystemPaused",
	ErrorCode_InvalidInput:              "InvalidInput",
	ErrorCode_MathOverflow:              "MathOverflow",
}

func (code ErrorCode) String() string {
	if name, ok := errorCodeNames[code]; ok {
		return name
	}
	return "Unknown"
}

// Error is a policy violation. Every operation that returns one left the state untouched.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidSignature          = &Error{Code: ErrorCode_InvalidSignature, Message: "The signature is invalid."}
	ErrExpiredSignature          = &Error{Code: ErrorCode_ExpiredSignature, Message: "The signature is expired."}
	ErrUnauthorized              = &Error{Code: ErrorCode_Unauthorized, Message: "You are not authorized to perform this action"}
	ErrInvalidPaymentToken       = &Error{Code: ErrorCode_InvalidPaymentToken, Message: "Invalid payment token"}
	ErrInvalidPaymentAmount      = &Error{Code: ErrorCode_InvalidPaymentAmount, Message: "Invalid payment amount"}
	ErrPaymentTokenNotConfigured = &Error{Code: ErrorCode_PaymentTokenNotConfigured, Message: "Payment token not configured"}
	ErrInsufficientFunds         = &Error{Code: ErrorCode_InsufficientFunds, Message: "Insufficient funds"}
	ErrSystemPaused              = &Error{Code: ErrorCode_SystemPaused, Message: "The system is paused for emergency"}
	ErrInvalidInput              = &Error{Code: ErrorCode_InvalidInput, Message: "Invalid input value"}
	ErrMathOverflow              = &Error{Code: ErrorCode_MathOverflow, Message: "Math overflow error"}
)

// CodeOf extracts the policy error code from a possibly wrapped error
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
