package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const guardSystem = `You are the guard in a game of Werewolf. Each night you
shield one player from the werewolves' attack. You cannot guard yourself
and you cannot guard the same player two nights in a row. Try to predict
who the werewolves will strike.`

// guardMemory remembers last night's target to enforce the no-repeat rule.
type guardMemory struct {
	LastProtected int `json:"last_protected"`
}

type guard struct {
	base
	mem guardMemory
}

func (gd *guard) Kind() domain.RoleKind { return domain.RoleGuard }

// NightAction shields one living player, excluding self and last night's
// target.
func (gd *guard) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	var legal []int
	var names []string
	for _, p := range g.Alive() {
		if p.ID == gd.playerID || p.ID == gd.mem.LastProtected {
			continue
		}
		legal = append(legal, p.ID)
		names = append(names, p.Name)
	}
	if len(legal) == 0 {
		return domain.WaitAction("no legal targets"), nil
	}

	lastLine := "You protected nobody last night."
	if p := g.Player(gd.mem.LastProtected); p != nil {
		lastLine = fmt.Sprintf("Last night you protected %s; you cannot protect them again tonight.", p.Name)
	}

	prompt := fmt.Sprintf(`It is night %d of the werewolf game. You are %s, the guard.
%s

You can protect: %s

Recent game history:
%s

Who do you shield from the werewolves tonight? Reply with: I choose to protect player X`,
		g.Day, gd.name, lastLine, strings.Join(names, ", "), gd.historyBlock(g))

	act, err := gd.targetAction(ctx, ag, prompt, guardSystem, legal, domain.ActionProtect)
	if err != nil {
		return domain.Action{}, err
	}
	gd.mem.LastProtected = act.Target
	return act, nil
}

func (gd *guard) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return gd.discuss(ctx, g, ag, guardSystem)
}

func (gd *guard) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return gd.vote(ctx, g, ag, guardSystem)
}

func (gd *guard) MemorySnapshot() (json.RawMessage, error) {
	return snapshotMemory(gd.mem)
}

func (gd *guard) RestoreMemory(raw json.RawMessage) error {
	return restoreMemory(raw, &gd.mem)
}
