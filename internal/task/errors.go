package task

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Input bounds, in characters
const (
	MinInputChars = 3
	MaxInputChars = 10000
)

var (
	// ErrInputTooShort is returned for raw input under MinInputChars
	ErrInputTooShort = errors.New("input too short")
	// ErrInputTooLong is returned for raw input over MaxInputChars
	ErrInputTooLong = errors.New("input too long")
	// ErrRemoteUnavailable covers transport failures and timeouts of the remote engine
	ErrRemoteUnavailable = errors.New("remote engine unavailable")
	// ErrMalformedRemoteResponse covers remote output that does not match the result contract
	ErrMalformedRemoteResponse = errors.New("malformed remote response")
)

// CheckInput enforces the raw input length bounds
func CheckInput(text string) error {
	n := utf8.RuneCountInString(text)
	if n < MinInputChars {
		return fmt.Errorf("%w: %d characters, minimum is %d", ErrInputTooShort, n, MinInputChars)
	}
	if n > MaxInputChars {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrInputTooLong, n, MaxInputChars)
	}
	return nil
}

// IsInputError reports whether err is one of the user-visible length errors
func IsInputError(err error) bool {
	return errors.Is(err, ErrInputTooShort) || errors.Is(err, ErrInputTooLong)
}
