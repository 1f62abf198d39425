// Package advisor turns a natural-language audience description into a
// segment rule document. Suggestions are advisory: every generated rule
// passes through the same validation as a hand-written one before it is
// shown to the caller.
package advisor

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no advisor backend is configured.
var ErrUnavailable = errors.New("rule advisor not configured")

// Suggestion is a validated rule document plus the model's explanation.
type Suggestion struct {
	Rules       map[string]any `json:"rules"`
	Explanation string         `json:"explanation,omitempty"`
}

// RuleSuggester is the advisor port.
type RuleSuggester interface {
	Suggest(ctx context.Context, description string) (*Suggestion, error)
}

// Disabled is the no-backend implementation.
type Disabled struct{}

func (Disabled) Suggest(context.Context, string) (*Suggestion, error) {
	return nil, ErrUnavailable
}
