package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const witchSystem = `You are the witch in a game of Werewolf. You own two
single-use potions: a healing potion that undoes tonight's werewolf
attack, and a poison that kills a player of your choice. Each can be used
only once in the whole game. Spend them at the moments of greatest
impact.`

// witchMemory tracks the two single-use potions.
type witchMemory struct {
	HealUsed   bool `json:"heal_used"`
	PoisonUsed bool `json:"poison_used"`
}

type witch struct {
	base
	mem witchMemory
}

func (w *witch) Kind() domain.RoleKind { return domain.RoleWitch }

func (w *witch) potionsLine() string {
	var opts []string
	if !w.mem.HealUsed {
		opts = append(opts, `reply "save" to heal whoever the werewolves attack tonight`)
	}
	if !w.mem.PoisonUsed {
		opts = append(opts, `reply "poison player X" to kill a player`)
	}
	opts = append(opts, `reply "pass" to keep your potions`)
	return strings.Join(opts, "\n- ")
}

// NightAction decides whether to spend a potion. The witch commits to a save
// without knowing the victim; the heal lands on whoever the pack attacks.
// With both potions gone she sleeps without an agent call.
func (w *witch) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	if w.mem.HealUsed && w.mem.PoisonUsed {
		return domain.SleepAction(), nil
	}

	prompt := fmt.Sprintf(`It is night %d of the werewolf game. You are %s, the witch.

Alive players: %s

Recent game history:
%s

Your options tonight:
- %s`,
		g.Day, w.name, rosterLine(g), w.historyBlock(g), w.potionsLine())

	reply, err := ag.Respond(ctx, prompt, witchSystem, actionTemperature, actionMaxTokens)
	if err != nil {
		return domain.Action{}, fmt.Errorf("player %d night action: %w", w.playerID, err)
	}
	lower := strings.ToLower(reply)

	switch {
	case !w.mem.PoisonUsed && strings.Contains(lower, "poison"):
		act := w.res.Resolve(reply, w.aliveOthers(g), domain.ActionPoison)
		if act.Type == domain.ActionPoison {
			w.mem.PoisonUsed = true
			w.log.Debug().Int("target", act.Target).Msg("witch used the poison")
		}
		return act, nil
	case !w.mem.HealUsed && strings.Contains(lower, "save"):
		w.mem.HealUsed = true
		w.log.Debug().Msg("witch used the healing potion")
		return domain.Action{Type: domain.ActionSave}, nil
	default:
		return domain.WaitAction("kept potions"), nil
	}
}

func (w *witch) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return w.discuss(ctx, g, ag, witchSystem)
}

func (w *witch) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return w.vote(ctx, g, ag, witchSystem)
}

func (w *witch) MemorySnapshot() (json.RawMessage, error) {
	return snapshotMemory(w.mem)
}

func (w *witch) RestoreMemory(raw json.RawMessage) error {
	return restoreMemory(raw, &w.mem)
}
