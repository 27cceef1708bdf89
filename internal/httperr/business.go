package httperr

import (
	"errors"
	"strings"
)

// Kind classifies a business error for the transport layer.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthorized
	KindConflict
	KindInvalidTransition
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindUnavailable:
		return "unavailable"
	default:
		return "validation_failed"
	}
}

type BusinessError struct {
	Kind    Kind
	Code    string
	Reasons []string
}

func (e BusinessError) Error() string {
	if len(e.Reasons) == 0 {
		return e.Code
	}
	return e.Code + ": " + strings.Join(e.Reasons, "; ")
}

// ErrBusiness keeps the original code-only constructor; it is a validation failure.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Validation(code string, reasons ...string) error {
	return BusinessError{Kind: KindValidation, Code: code, Reasons: reasons}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func Forbidden(code string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code}
}

func Conflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func InvalidTransition(code string) error {
	return BusinessError{Kind: KindInvalidTransition, Code: code}
}

func Unavailable(code string) error {
	return BusinessError{Kind: KindUnavailable, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf reports the kind of a business error anywhere in the chain.
func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
