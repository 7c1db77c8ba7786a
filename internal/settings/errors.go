package settings

import (
	"errors"
)

// Kind classifies a settings error.
type Kind uint8

const (
	// KindConnection means the backend could not be reached or no connection could be acquired.
	KindConnection Kind = iota + 1
	// KindDatabase means a query or write failed against a reachable backend.
	KindDatabase
	// KindValidation means a caller supplied record violates an invariant.
	KindValidation
	// KindNotFound means no settings record exists.
	KindNotFound
)

var (
	// ErrConnection matches every error of KindConnection.
	ErrConnection = errors.New("connection error")
	// ErrDatabase matches every error of KindDatabase.
	ErrDatabase = errors.New("database error")
	// ErrValidation matches every error of KindValidation.
	ErrValidation = errors.New("validation error")
	// ErrNotFound matches every error of KindNotFound.
	ErrNotFound = errors.New("settings not found")
)

// String returns the human readable prefix used in error messages.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "Connection error"
	case KindDatabase:
		return "Database error"
	case KindValidation:
		return "Validation error"
	case KindNotFound:
		return "Settings not found"
	default:
		return "Unknown error"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnection
	case KindDatabase:
		return ErrDatabase
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error is the typed error returned by the store and its repositories.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "load" or "save".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewConnectionError wraps err as a KindConnection error.
func NewConnectionError(op string, err error) error {
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

// NewDatabaseError wraps err as a KindDatabase error.
func NewDatabaseError(op string, err error) error {
	return &Error{Kind: KindDatabase, Op: op, Err: err}
}

// NewValidationError returns a KindValidation error carrying msg.
func NewValidationError(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Err: errors.New(msg)}
}

// NewNotFoundError returns a KindNotFound error.
func NewNotFoundError(op string) error {
	return &Error{Kind: KindNotFound, Op: op}
}

// KindOf returns the kind of err, or 0 if err is not a settings error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// classify keeps typed errors as they are and treats anything else as a database failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if KindOf(err) != 0 {
		return err
	}

	return NewDatabaseError(op, err)
}
