package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
)

var ErrNoPendingPrompt = errors.New("no pending prompt")

// PromptHub buffers prompt requests from human seats so they can be served
// over HTTP: the engine blocks inside its phase while the prompt waits
// here, and the next POSTed reply unblocks it. Prompts are answered in
// arrival order.
type PromptHub struct {
	mu      sync.Mutex
	pending []agent.PromptRequest
}

func NewPromptHub() *PromptHub {
	return &PromptHub{}
}

// Serve drains requests into the pending queue until ctx is done. Run it in
// its own goroutine for the lifetime of the server.
func (h *PromptHub) Serve(ctx context.Context, requests <-chan agent.PromptRequest) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			h.mu.Lock()
			h.pending = append(h.pending, req)
			h.mu.Unlock()
		}
	}
}

// Next returns the oldest pending prompt without consuming it.
func (h *PromptHub) Next() (agent.PromptRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.pending) == 0 {
		return agent.PromptRequest{}, ErrNoPendingPrompt
	}
	return h.pending[0], nil
}

// Reply answers the oldest pending prompt and removes it from the queue.
func (h *PromptHub) Reply(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.pending) == 0 {
		return ErrNoPendingPrompt
	}
	req := h.pending[0]
	h.pending = h.pending[1:]
	req.Reply <- text
	return nil
}
