package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrFullnameEmpty       = errors.New("no fullname provided")
	ErrFullnameTooLong     = errors.New("fullname is too long")
	ErrEventNameEmpty      = errors.New("no event name provided")
	ErrEventNameTooLong    = errors.New("event name must be at most 255 characters long")
	ErrDescriptionEmpty    = errors.New("no event description provided")
	ErrEventDatesMissing   = errors.New("event start and end dates are required")
	ErrEventDatesNotSorted = errors.New("event end date must be after the start date")
)

func FullnameValidator(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return ErrFullnameEmpty
	}

	if utf8.RuneCountInString(n) > 255 {
		return ErrFullnameTooLong
	}

	return nil
}

func EventNameValidator(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return ErrEventNameEmpty
	}

	if utf8.RuneCountInString(n) > 255 {
		return ErrEventNameTooLong
	}

	return nil
}
