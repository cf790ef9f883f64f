package domain

import "errors"

// ErrInvalidSetting is returned when a persisted setting cannot be parsed.
var ErrInvalidSetting = errors.New("invalid setting value")

// ErrUnknownFormat is returned when a notation format is not supported.
var ErrUnknownFormat = errors.New("unknown notation format")

// ErrStoreUnavailable is returned when a settings backend cannot be reached.
var ErrStoreUnavailable = errors.New("settings store unavailable")

// ErrInvalidInput is returned when a document to dump cannot be parsed.
var ErrInvalidInput = errors.New("invalid input document")
