package common

import "github.com/cockroachdb/errors"

// Error classes shared by the clients, the store and the bot.
// Callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrRateLimited   = errors.New("rate limited")
	ErrAlreadyExists = errors.New("already exists")
)
