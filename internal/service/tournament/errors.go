package tournament

import "errors"

var (
	ErrDuplicateNickname = errors.New("nickname already taken")
	ErrEmptyNickname     = errors.New("nickname must not be empty")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrSelfMatch         = errors.New("a player cannot play against themselves")
	ErrNegativeScore     = errors.New("match scores cannot be negative")

	// ErrMalformedRecord marks a persisted record skipped during load. It never reaches registry callers.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrPersistence wraps a failed snapshot write. The in-memory mutation is kept.
	ErrPersistence = errors.New("snapshot persistence failed")
)

// IsValidation reports whether err is one of the caller-facing validation failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateNickname) ||
		errors.Is(err, ErrEmptyNickname) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrSelfMatch) ||
		errors.Is(err, ErrNegativeScore)
}
