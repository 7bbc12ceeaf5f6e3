package domain

import "errors"

// Error kinds surfaced by lifecycle and streaming operations. Callers
// classify with errors.Is; call sites wrap them with %w to add context.
//
// ErrNotFound and ErrNotOwned are distinct kinds internally, but the
// transport layer renders both as the same "not authorized" response so
// callers cannot probe whether a session exists.
var (
	ErrNotFound        = errors.New("session not found")
	ErrNotOwned        = errors.New("not authorized for this session")
	ErrAlreadyEnded    = errors.New("session already ended")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPersistence     = errors.New("persistence failure")
	ErrGeneration      = errors.New("answer generation failure")
)
