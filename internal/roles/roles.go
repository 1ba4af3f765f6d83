// Package roles implements the per-role decision logic: what each role does
// at night, how it speaks during the day, and how it votes. Behaviors read
// game state snapshots and return intents; they never mutate the game
// directly. Role-private knowledge (checked identities, potion charges, the
// guard's last target) lives here and round-trips through persistence.
package roles

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/resolver"
)

// Behavior is the shared capability set of every role. NightAction and
// DayDiscussion consult the agent at most once per invocation; inert roles
// answer without an agent call.
type Behavior interface {
	Kind() domain.RoleKind

	// NightAction returns the role's night intent against the snapshot.
	NightAction(ctx context.Context, g *domain.GameState, ag agent.Agent) (domain.Action, error)

	// DayDiscussion returns the role's speech for today's discussion.
	DayDiscussion(ctx context.Context, g *domain.GameState, ag agent.Agent) (string, error)

	// Vote returns the id of the player this role votes to eliminate.
	Vote(ctx context.Context, g *domain.GameState, ag agent.Agent) (int, error)

	// MemorySnapshot serializes the role's private memory; nil when the
	// role keeps none.
	MemorySnapshot() (json.RawMessage, error)

	// RestoreMemory loads a previously snapshotted memory block.
	RestoreMemory(raw json.RawMessage) error
}

// Options configures behavior construction.
type Options struct {
	Resolver      *resolver.Resolver
	Logger        zerolog.Logger
	HistoryWindow int // recent event_history entries embedded in prompts
}

const defaultHistoryWindow = 15

var factories = map[domain.RoleKind]func(base) Behavior{
	domain.RoleVillager:   func(b base) Behavior { return &villager{base: b} },
	domain.RoleWerewolf:   func(b base) Behavior { return &werewolf{base: b} },
	domain.RoleSeer:       func(b base) Behavior { return newSeer(b) },
	domain.RoleWitch:      func(b base) Behavior { return &witch{base: b} },
	domain.RoleHunter:     func(b base) Behavior { return &marksman{base: b, kind: domain.RoleHunter} },
	domain.RoleGuard:      func(b base) Behavior { return &guard{base: b} },
	domain.RoleFool:       func(b base) Behavior { return &fool{base: b} },
	domain.RoleElder:      func(b base) Behavior { return &elder{base: b} },
	domain.RoleWolfKiller: func(b base) Behavior { return &marksman{base: b, kind: domain.RoleWolfKiller} },
	domain.RoleMedium:     func(b base) Behavior { return newMedium(b) },
	domain.RoleMagician:   func(b base) Behavior { return &magician{base: b} },
}

// New builds the behavior for a role. The role set is closed: an unknown
// kind is a programming error surfaced as ErrUnknownRole.
func New(kind domain.RoleKind, playerID int, name string, opts Options) (Behavior, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, kind)
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("roles: resolver is required")
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	b := base{
		playerID: playerID,
		name:     name,
		res:      opts.Resolver,
		log:      opts.Logger.With().Int("player_id", playerID).Str("role", string(kind)).Logger(),
		window:   opts.HistoryWindow,
	}
	return factory(b), nil
}
