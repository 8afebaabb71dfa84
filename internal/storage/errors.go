package storage

import "errors"

// Storage errors for the claim ledger and audit sink.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key
	// already exists. The claim ledger is append-only; the uniqueness
	// constraint is enforced by the storage engine itself.
	ErrDuplicateKey = errors.New("duplicate key: claim ledger is append-only")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable is returned when the storage engine cannot be
	// reached or a query fails for reasons unrelated to the data. A
	// claim lookup that fails this way must never be read as
	// "not claimed".
	ErrUnavailable = errors.New("storage unavailable")
)
