package account

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidInput
	KindNotVerified
	KindRejected
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotVerified:
		return "not_verified"
	case KindRejected:
		return "rejected"
	case KindTransport:
		return "transport"
	default:
		return "unexpected"
	}
}

// CodeNotVerified is the structured code the backend sends for accounts
// still waiting on OTP confirmation.
const CodeNotVerified = "USER_NOT_VERIFIED"

// Error is what the account flows return. Message is safe to show.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var accountErr *Error
	if errors.As(err, &accountErr) {
		return accountErr.Kind
	}
	return KindUnexpected
}

// MessageOf returns the user-facing message of err or fallback.
func MessageOf(err error, fallback string) string {
	var accountErr *Error
	if errors.As(err, &accountErr) && accountErr.Message != "" {
		return accountErr.Message
	}
	return fallback
}

// classify maps a rejected response onto a kind. The structured code wins;
// older backends only say "not verified" in the message.
func classify(code, message string) Kind {
	if code == CodeNotVerified {
		return KindNotVerified
	}
	if strings.Contains(strings.ToLower(message), "not verified") {
		return KindNotVerified
	}
	return KindRejected
}
