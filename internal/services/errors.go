package services

import "errors"

// Kind classifies service errors so transports can map them to responses.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified service error. Sentinels below are *Error values,
// so both errors.Is and KindOf work on wrapped results.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain,
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	// ErrUnauthenticated covers bad, expired or revoked tokens and unknown subjects.
	ErrUnauthenticated = newError(KindUnauthenticated, "could not validate credentials")
	// ErrInvalidCredentials is returned by Login for an unknown user or wrong password.
	ErrInvalidCredentials = newError(KindUnauthenticated, "incorrect username or password")

	ErrInactiveUser        = newError(KindValidation, "inactive user")
	ErrWrongPassword       = newError(KindValidation, "current password is incorrect")
	ErrInvalidRegistration = newError(KindValidation, "username, email and password are required")
	ErrEmptyPassword       = newError(KindValidation, "new password must not be empty")
	ErrUsernameTooLong     = newError(KindValidation, "username must be at most 50 characters")
	ErrEmailTooLong        = newError(KindValidation, "email must be at most 100 characters")
	ErrFullNameTooLong     = newError(KindValidation, "full name must be at most 255 characters")
	ErrInvalidAmount       = newError(KindValidation, "transfer amount must be positive")
	ErrAmountPrecision     = newError(KindValidation, "transfer amount must have at most 2 decimal places")
	ErrAmountTooLarge      = newError(KindValidation, "transfer amount is too large")
	ErrInvalidCurrency     = newError(KindValidation, "currency must be a 3-letter code")
	ErrExternalIDTooLong   = newError(KindValidation, "receiver external id must be at most 255 characters")
	ErrInvalidTransferType = newError(KindValidation, "unknown transfer type")
	ErrInsufficientBalance = newError(KindValidation, "insufficient balance")
	ErrMissingReceiver     = newError(KindValidation, "receiver id is required for internal transfers")
	ErrReceiverNotFound    = newError(KindNotFound, "receiver not found")
	ErrSenderNotFound      = newError(KindNotFound, "sender not found")
	ErrUserAlreadyExists   = newError(KindConflict, "user with this email or username already exists")
	ErrDuplicateReference  = newError(KindConflict, "duplicate transfer reference")
)
