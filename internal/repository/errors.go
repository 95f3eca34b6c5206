package repository

import "errors"

// ErrNotFound means nothing is stored under the key. The persistence bridge
// treats it as "use seed data".
var ErrNotFound = errors.New("record not found")

// ErrInvalidKey is returned for an empty storage key.
var ErrInvalidKey = errors.New("invalid storage key")
