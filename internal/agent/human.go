package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// PromptRequest is handed to the UI when a human seat must act. The UI
// answers on Reply (or abandons the request by ignoring it; the engine's
// context governs how long the game waits).
type PromptRequest struct {
	PlayerName    string
	Prompt        string
	SystemMessage string
	Reply         chan<- string
}

// HumanAgent suspends the game until a human supplies a reply through an
// external UI. No timeout is imposed here; cancellation comes from ctx.
type HumanAgent struct {
	playerName string
	requests   chan<- PromptRequest
}

// NewHumanAgent returns an agent that publishes prompt requests on the
// given channel. The channel is typically serviced by an HTTP handler or a
// console loop.
func NewHumanAgent(playerName string, requests chan<- PromptRequest) *HumanAgent {
	return &HumanAgent{playerName: playerName, requests: requests}
}

func (a *HumanAgent) Name() string {
	return "Human Player"
}

func (a *HumanAgent) Respond(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (string, error) {
	reply := make(chan string, 1)
	req := PromptRequest{
		PlayerName:    a.playerName,
		Prompt:        prompt,
		SystemMessage: systemMessage,
		Reply:         reply,
	}

	select {
	case a.requests <- req:
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}

	select {
	case text := <-reply:
		return text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

// ConsoleRelay services human prompt requests from a terminal: it prints
// the prompt to w and reads one reply line from r. Run it in its own
// goroutine for the lifetime of the game.
func ConsoleRelay(ctx context.Context, requests <-chan PromptRequest, r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			fmt.Fprintf(w, "\n=== %s's turn ===\n", req.PlayerName)
			if req.SystemMessage != "" {
				fmt.Fprintf(w, "[role briefing] %s\n", req.SystemMessage)
			}
			fmt.Fprintf(w, "\n%s\n\nyour reply> ", req.Prompt)
			if !scanner.Scan() {
				return
			}
			req.Reply <- scanner.Text()
		}
	}
}
