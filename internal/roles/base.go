package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/resolver"
)

// Generation settings per call site. Discussions run a little hotter and
// longer than targeting decisions.
const (
	actionTemperature = 0.7
	actionMaxTokens   = 200

	discussionTemperature = 0.8
	discussionMaxTokens   = 300
)

// base carries the state and helpers every behavior shares. Concrete roles
// embed it and supply their own system messages and night logic.
type base struct {
	playerID int
	name     string
	res      *resolver.Resolver
	log      zerolog.Logger
	window   int
}

// aliveOthers returns ids of living players other than this one.
func (b *base) aliveOthers(g *domain.GameState) []int {
	var out []int
	for _, p := range g.Alive() {
		if p.ID != b.playerID {
			out = append(out, p.ID)
		}
	}
	return out
}

// historyBlock renders the newest window entries of the public history.
func (b *base) historyBlock(g *domain.GameState) string {
	recent := g.RecentEvents(b.window)
	if len(recent) == 0 {
		return "Nothing has happened yet."
	}
	return strings.Join(recent, "\n")
}

// discussionBlock renders today's speeches so far.
func discussionBlock(g *domain.GameState) string {
	if len(g.CurrentDiscussions) == 0 {
		return "Nobody has spoken yet."
	}
	var sb strings.Builder
	for _, d := range g.CurrentDiscussions {
		fmt.Fprintf(&sb, "%s: %s\n", d.PlayerName, d.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// rosterLine renders the living players as "Player 1, Player 3, ...".
func rosterLine(g *domain.GameState) string {
	names := make([]string, 0, len(g.Players))
	for _, p := range g.Alive() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// deathsLine summarizes last night's deaths for day prompts.
func deathsLine(g *domain.GameState) string {
	if len(g.LastNightDeaths) == 0 {
		return "Nobody died last night."
	}
	parts := make([]string, 0, len(g.LastNightDeaths))
	for _, d := range g.LastNightDeaths {
		parts = append(parts, fmt.Sprintf("%s (was a %s)", d.Name, d.Role))
	}
	return "Died last night: " + strings.Join(parts, ", ")
}

// discussionPrompt is the shared day-speech prompt. Role-specific framing
// goes in the system message, not here.
func (b *base) discussionPrompt(g *domain.GameState) string {
	return fmt.Sprintf(`It is day %d of the werewolf game. You are %s.

Alive players: %s
%s

Recent game history:
%s

Today's discussion so far:
%s

Speak to the village in 2-3 sentences. Share suspicions, defend yourself,
or react to what others said. Stay in character.`,
		g.Day, b.name, rosterLine(g), deathsLine(g),
		b.historyBlock(g), discussionBlock(g))
}

// votePrompt asks for an elimination target among the living others.
func (b *base) votePrompt(g *domain.GameState) string {
	candidates := make([]string, 0, len(g.Players))
	for _, p := range g.Alive() {
		if p.ID != b.playerID {
			candidates = append(candidates, p.Name)
		}
	}
	return fmt.Sprintf(`It is day %d of the werewolf game. You are %s. The village is voting.

You may vote for: %s

Recent game history:
%s

Today's discussion:
%s

Who do you vote to eliminate? Reply with: I vote for player X`,
		g.Day, b.name, strings.Join(candidates, ", "),
		b.historyBlock(g), discussionBlock(g))
}

// discuss runs the shared discussion flow with the given system message.
func (b *base) discuss(ctx context.Context, g *domain.GameState, ag agent.Agent, system string) (string, error) {
	reply, err := ag.Respond(ctx, b.discussionPrompt(g), system, discussionTemperature, discussionMaxTokens)
	if err != nil {
		return "", fmt.Errorf("player %d discussion: %w", b.playerID, err)
	}
	return strings.TrimSpace(reply), nil
}

// vote runs the shared vote flow with the given system message. The reply is
// resolved against the living others, so a dead or self target can never
// come back.
func (b *base) vote(ctx context.Context, g *domain.GameState, ag agent.Agent, system string) (int, error) {
	legal := b.aliveOthers(g)
	if len(legal) == 0 {
		return 0, nil
	}
	reply, err := ag.Respond(ctx, b.votePrompt(g), system, actionTemperature, actionMaxTokens)
	if err != nil {
		return 0, fmt.Errorf("player %d vote: %w", b.playerID, err)
	}
	act := b.res.Resolve(reply, legal, domain.ActionKill)
	if act.Result == "fallback" {
		b.log.Debug().Str("reply", reply).Int("target", act.Target).Msg("vote fell back to random target")
	}
	return act.Target, nil
}

// targetAction runs the shared night-targeting flow: prompt, resolve against
// legal, log fallbacks.
func (b *base) targetAction(ctx context.Context, ag agent.Agent, prompt, system string, legal []int, kind domain.ActionType) (domain.Action, error) {
	if len(legal) == 0 {
		return domain.WaitAction("no legal targets"), nil
	}
	reply, err := ag.Respond(ctx, prompt, system, actionTemperature, actionMaxTokens)
	if err != nil {
		return domain.Action{}, fmt.Errorf("player %d night action: %w", b.playerID, err)
	}
	act := b.res.Resolve(reply, legal, kind)
	if act.Result == "fallback" {
		b.log.Debug().Str("reply", reply).Int("target", act.Target).Msg("night action fell back to random target")
	}
	return act, nil
}

// noMemory is embedded by roles that keep no private state.
type noMemory struct{}

func (noMemory) MemorySnapshot() (json.RawMessage, error) { return nil, nil }
func (noMemory) RestoreMemory(json.RawMessage) error      { return nil }

// snapshotMemory marshals a role's memory struct.
func snapshotMemory(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot role memory: %w", err)
	}
	return raw, nil
}

// restoreMemory unmarshals a snapshot into a role's memory struct. A nil
// snapshot (role had saved no memory yet) is a no-op.
func restoreMemory(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("restore role memory: %w", err)
	}
	return nil
}
