package explain

import (
	"errors"
	"fmt"

	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
)

// Kind classifies why a question could not be answered.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindEmptyQuestion
	KindAuthFailure
	KindRateLimited
	KindModelUnavailable
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindEmptyQuestion:
		return "empty_question"
	case KindAuthFailure:
		return "auth_failure"
	case KindRateLimited:
		return "rate_limited"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindTimeout:
		return "timeout"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Hints shown to users. They never contain provider output.
const (
	HintEmptyQuestion    = "Please ask a question, for example `!explain what is TCP?`"
	HintAuthFailure      = "Invalid or missing API key. Check OPENAI_API_KEY in the bot configuration."
	HintRateLimited      = "Rate limit hit. Try again later."
	HintModelUnavailable = "Model name may be wrong or not enabled for your account."
	HintTimeout          = "The request took too long. Try again later."
	HintUnknown          = "See logs for details."
)

// Error is returned by Handler.Handle. Err holds the underlying provider
// error, if any, and is meant for logs only.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "explain: " + e.Kind.String()
	}
	return fmt.Sprintf("explain: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Hint returns the user facing message for the error kind.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindEmptyQuestion:
		return HintEmptyQuestion
	case KindAuthFailure:
		return HintAuthFailure
	case KindRateLimited:
		return HintRateLimited
	case KindModelUnavailable:
		return HintModelUnavailable
	case KindTimeout:
		return HintTimeout
	}
	return HintUnknown
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// kindFor maps a provider failure onto the user facing taxonomy.
func kindFor(err error) Kind {
	switch provider.Classify(err) {
	case provider.CategoryAuth:
		return KindAuthFailure
	case provider.CategoryRateLimit:
		return KindRateLimited
	case provider.CategoryModel:
		return KindModelUnavailable
	case provider.CategoryTimeout:
		return KindTimeout
	}
	return KindUnknown
}
