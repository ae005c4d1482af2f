package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindAuth
	KindValidation
	KindLocationNotFound
	KindSearch
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindLocationNotFound:
		return "location_not_found"
	case KindSearch:
		return "search"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the only error shape that leaves the search and booking paths.
// Message is safe to show to end users.
type Error struct {
	Kind         Kind
	Message      string
	Field        string // validation only
	ProviderCode string // provider error code/title when known
	Err          error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String() + " error"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrAuth) works on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrConfig           = &Error{Kind: KindConfig}
	ErrAuth             = &Error{Kind: KindAuth}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrLocationNotFound = &Error{Kind: KindLocationNotFound}
	ErrSearch           = &Error{Kind: KindSearch}
	ErrNetwork          = &Error{Kind: KindNetwork}

	ErrTripNotFound = errors.New("trip not found")
)

func ConfigError(msg string) error { return &Error{Kind: KindConfig, Message: msg} }

func AuthError(msg string, cause error) error {
	return &Error{Kind: KindAuth, Message: msg, Err: cause}
}

func ValidationError(field, format string, args ...any) error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func LocationNotFoundError(destination string) error {
	return &Error{Kind: KindLocationNotFound, Message: fmt.Sprintf("could not find a location matching %q", destination)}
}

func SearchError(msg, providerCode string, cause error) error {
	return &Error{Kind: KindSearch, Message: msg, ProviderCode: providerCode, Err: cause}
}

func NetworkError(msg string, cause error) error {
	return &Error{Kind: KindNetwork, Message: msg, Err: cause}
}

// KindOf returns the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
