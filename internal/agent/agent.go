// Package agent defines the text-generation boundary of the engine. A seat
// is driven by anything that can answer a prompt: a hosted model API or a
// human relaying input through a UI. The engine never knows which.
package agent

import (
	"context"
	"errors"
)

// ErrUnavailable wraps transport or provider failures. The engine treats it
// as a phase-level failure and propagates it; it never substitutes a move
// for an unreachable agent (a malformed reply from a reachable agent is a
// different case, recovered by the resolver).
var ErrUnavailable = errors.New("agent unavailable")

// Agent produces a free-text reply to a prompt. systemMessage may be empty.
// Implementations must honor ctx cancellation; a human agent may block
// indefinitely until input arrives or ctx is done.
type Agent interface {
	Respond(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (string, error)
}

// Name returns a display label for the provider driving a seat, used in
// summary exports.
type Named interface {
	Name() string
}

// Label returns ag's display name, or a generic label.
func Label(ag Agent) string {
	if n, ok := ag.(Named); ok {
		return n.Name()
	}
	return "unknown"
}
