package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of them so callers can
// branch with errors.Is without knowing the specific error.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
)

var (
	ErrInvalidID          = fmt.Errorf("%w: malformed id", ErrInvalidArgument)
	ErrEmptyContent       = fmt.Errorf("%w: message content cannot be empty", ErrInvalidArgument)
	ErrContentTooLong     = fmt.Errorf("%w: message content is too long", ErrInvalidArgument)
	ErrCannotMatchSelf    = fmt.Errorf("%w: cannot like or dislike own profile", ErrInvalidArgument)
	ErrNotParticipant     = fmt.Errorf("%w: you don't have access to this conversation", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrMatchNotFound      = fmt.Errorf("%w: match not found", ErrNotFound)
	ErrMessageNotFound    = fmt.Errorf("%w: message not found", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: profile not found", ErrNotFound)
	ErrMatchNotAccepted   = fmt.Errorf("%w: cannot send messages to an unaccepted match", ErrPreconditionFailed)
	ErrCannotReadOwn      = fmt.Errorf("%w: cannot mark your own message as read", ErrPreconditionFailed)
	ErrMatchAlreadyExists = fmt.Errorf("%w: match already exists for this pair", ErrPreconditionFailed)
)
