package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const hunterSystem = `You are the hunter in a game of Werewolf. If the
werewolves kill you, you fire a final shot and take one player down with
you. Each night you designate who that would be. Choose whoever you most
suspect of being a werewolf.`

const wolfKillerSystem = `You are the wolf killer in a game of Werewolf. If
the werewolves kill you, your trap springs and takes one player down with
you. Each night you set the trap on one player. Aim it at whoever you
most suspect of being a werewolf.`

// marksman covers the hunter and the wolf killer: both designate a standing
// revenge target each night that fires only if the werewolves kill them.
// Being poisoned by the witch suppresses the shot.
type marksman struct {
	base
	noMemory
	kind domain.RoleKind
}

func (m *marksman) Kind() domain.RoleKind { return m.kind }

func (m *marksman) system() string {
	if m.kind == domain.RoleWolfKiller {
		return wolfKillerSystem
	}
	return hunterSystem
}

// NightAction picks tonight's standing revenge target among the living
// others.
func (m *marksman) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	legal := m.aliveOthers(g)
	var names []string
	for _, id := range legal {
		if p := g.Player(id); p != nil {
			names = append(names, p.Name)
		}
	}

	prompt := fmt.Sprintf(`It is night %d of the werewolf game. You are %s, the %s.

You can target: %s

Recent game history:
%s

If the werewolves kill you tonight, who goes down with you? Reply with: I choose to shoot player X`,
		g.Day, m.name, m.kind, strings.Join(names, ", "), m.historyBlock(g))

	return m.targetAction(ctx, ag, prompt, m.system(), legal, domain.ActionShoot)
}

func (m *marksman) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return m.discuss(ctx, g, ag, m.system())
}

func (m *marksman) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return m.vote(ctx, g, ag, m.system())
}
