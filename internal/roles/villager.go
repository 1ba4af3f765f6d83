package roles

import (
	"context"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

const villagerSystem = `You are a villager in a game of Werewolf. You have no
special powers. Your goal is to find the werewolves and vote them out.
Pay attention to who died, who accuses whom, and who behaves strangely.`

// villager has no night power; it sleeps without an agent call.
type villager struct {
	base
	noMemory
}

func (v *villager) Kind() domain.RoleKind { return domain.RoleVillager }

func (v *villager) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	return domain.SleepAction(), nil
}

func (v *villager) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return v.discuss(ctx, g, ag, villagerSystem)
}

func (v *villager) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return v.vote(ctx, g, ag, villagerSystem)
}

const foolSystem = `You are the fool in a game of Werewolf. You are on the
village team and have no power, but you survive being voted out once: the
first vote against you only exposes you. Play boldly. Draw attention,
make provocative accusations, and soak up suspicion that would otherwise
land on the real power roles.`

// fool plays like a loud villager; surviving the first vote-out is handled
// by the game, not here.
type fool struct {
	base
	noMemory
}

func (f *fool) Kind() domain.RoleKind { return domain.RoleFool }

func (f *fool) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	return domain.SleepAction(), nil
}

func (f *fool) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return f.discuss(ctx, g, ag, foolSystem)
}

func (f *fool) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return f.vote(ctx, g, ag, foolSystem)
}

const elderSystem = `You are the elder in a game of Werewolf. You are on the
village team. You can survive one werewolf attack, but nobody may learn
this or the werewolves will simply attack you twice. Play exactly like an
ordinary villager and never hint at your resilience.`

// elder plays like a villager; the one-hit shield lives on the Player
// record and is consumed by night resolution.
type elder struct {
	base
	noMemory
}

func (e *elder) Kind() domain.RoleKind { return domain.RoleElder }

func (e *elder) NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error) {
	return domain.SleepAction(), nil
}

func (e *elder) DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error) {
	return e.discuss(ctx, g, ag, elderSystem)
}

func (e *elder) Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error) {
	return e.vote(ctx, g, ag, elderSystem)
}
