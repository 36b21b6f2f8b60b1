package tourneydto

// Error codes carried by DomainError.
const (
	CodeEmptyNickname     = "empty_nickname"
	CodeDuplicateNickname = "duplicate_nickname"
	CodePlayerNotFound    = "player_not_found"
	CodeSelfMatch         = "self_match"
	CodeNegativeScore     = "negative_score"
	CodeInternal          = "internal"
)

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "tournament service error"
}
