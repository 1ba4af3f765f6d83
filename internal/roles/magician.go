package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const magicianSystem = `You are the magician in a game of Werewolf. Once per
game you may cloak a player for a night: if the werewolves attack that
player, the attack fizzles. Save the trick for someone you believe is
both valuable and in danger, yourself included.`

// magicianMemory tracks the single-use cloak.
type magicianMemory struct {
	SwapUsed bool `json:"swap_used"`
}

type magician struct {
	base
	mem magicianMemory
}

func (m *magician) Kind() domain.RoleKind { return domain.RoleMagician }

// NightAction decides whether to spend the cloak. The trick is spent the
// night it is cast, whether or not the werewolves pick that target.
func (m *magician) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	if m.mem.SwapUsed {
		return domain.SleepAction(), nil
	}

	var legal []int
	for _, p := range g.Alive() {
		legal = append(legal, p.ID)
	}

	prompt := fmt.Sprintf(`It is night %d of the werewolf game. You are %s, the magician.

Alive players (you may cloak yourself): %s

Recent game history:
%s

You may cast your one cloak tonight, or hold it. To cast, reply with:
I choose to cloak player X
To hold it, reply with: pass`,
		g.Day, m.name, rosterLine(g), m.historyBlock(g))

	reply, err := ag.Respond(ctx, prompt, magicianSystem, actionTemperature, actionMaxTokens)
	if err != nil {
		return domain.Action{}, fmt.Errorf("player %d night action: %w", m.playerID, err)
	}
	if strings.Contains(strings.ToLower(reply), "pass") {
		return domain.WaitAction("held the cloak"), nil
	}

	act := m.res.Resolve(reply, legal, domain.ActionSwap)
	if act.Type == domain.ActionSwap {
		m.mem.SwapUsed = true
		m.log.Debug().Int("target", act.Target).Msg("magician cast the cloak")
	}
	return act, nil
}

func (m *magician) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return m.discuss(ctx, g, ag, magicianSystem)
}

func (m *magician) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return m.vote(ctx, g, ag, magicianSystem)
}

func (m *magician) MemorySnapshot() (json.RawMessage, error) {
	return snapshotMemory(m.mem)
}

func (m *magician) RestoreMemory(raw json.RawMessage) error {
	return restoreMemory(raw, &m.mem)
}
