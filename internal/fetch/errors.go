package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure so the orchestrator can pick a fallback
// provider from structure instead of substring-matching response text.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindRateLimited
	KindBotProtection
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindBotProtection:
		return "bot_protection"
	case KindUpstream:
		return "upstream_error"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind     Kind
	Provider string
	Msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Msg, e.Kind)
}

func errf(provider string, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Provider: provider, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
