package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const werewolfSystem = `You are a werewolf in a game of Werewolf. At night the
pack chooses a victim; by day you must blend in with the village. Never
reveal yourself or your packmates. Deflect suspicion, cast doubt on the
power roles, and vote strategically against villagers.`

// werewolf knows its packmates (read from the roster each time, so the pack
// shrinks correctly as wolves die) and votes for tonight's kill.
type werewolf struct {
	base
	noMemory
}

func (w *werewolf) Kind() domain.RoleKind { return domain.RoleWerewolf }

// packLine lists the other living werewolves.
func (w *werewolf) packLine(g *domain.GameState) string {
	var mates []string
	for _, p := range g.Alive() {
		if p.Role == domain.RoleWerewolf && p.ID != w.playerID {
			mates = append(mates, p.Name)
		}
	}
	if len(mates) == 0 {
		return "You are the last werewolf."
	}
	return "Your fellow werewolves: " + strings.Join(mates, ", ")
}

// NightAction votes for a victim among the living non-werewolves. The pack's
// votes are tallied by night resolution; the plurality target dies.
func (w *werewolf) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	var legal []int
	var prey []string
	for _, p := range g.Alive() {
		if p.Role != domain.RoleWerewolf {
			legal = append(legal, p.ID)
			prey = append(prey, p.Name)
		}
	}

	prompt := fmt.Sprintf(`It is night %d of the werewolf game. You are %s, a werewolf.
%s

You can attack: %s

Recent game history:
%s

The pack kills whoever gets the most werewolf votes tonight. Consider who
threatens you most (a seer or witch if you can guess them, or a vocal
accuser). Reply with: I choose to kill player X`,
		g.Day, w.name, w.packLine(g), strings.Join(prey, ", "), w.historyBlock(g))

	return w.targetAction(ctx, ag, prompt, werewolfSystem, legal, domain.ActionKill)
}

func (w *werewolf) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	system := werewolfSystem + "\n" + w.packLine(g)
	return w.discuss(ctx, g, ag, system)
}

func (w *werewolf) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	system := werewolfSystem + "\n" + w.packLine(g)
	return w.vote(ctx, g, ag, system)
}
