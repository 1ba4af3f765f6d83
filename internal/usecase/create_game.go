package usecase

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/event"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
	"github.com/jacky88927/werewolf-llm-game/internal/resolver"
	"github.com/jacky88927/werewolf-llm-game/internal/roles"
)

// AgentFactory supplies the agent driving a seat. Seats are assigned after
// roles are dealt, so the factory cannot know (and must not care) which
// role a seat holds.
type AgentFactory func(playerID int) agent.Agent

type CreateGameUseCase struct {
	repo     repository.GameRepository
	sessions *SessionStore
	agents   AgentFactory
	log      zerolog.Logger

	maxDays       int
	tiePolicy     domain.TiePolicy
	historyWindow int
	seed          int64
}

type CreateGameDeps struct {
	Repo     repository.GameRepository
	Sessions *SessionStore
	Agents   AgentFactory
	Log      zerolog.Logger

	MaxDays       int
	TiePolicy     domain.TiePolicy
	HistoryWindow int
	// Seed makes role dealing and fallback targeting reproducible; 0 means
	// time-seeded.
	Seed int64
}

func NewCreateGameUseCase(deps CreateGameDeps) *CreateGameUseCase {
	return &CreateGameUseCase{
		repo:          deps.Repo,
		sessions:      deps.Sessions,
		agents:        deps.Agents,
		log:           deps.Log,
		maxDays:       deps.MaxDays,
		tiePolicy:     deps.TiePolicy,
		historyWindow: deps.HistoryWindow,
		seed:          deps.Seed,
	}
}

type CreateGameInput struct {
	PlayerCount   int
	WerewolfCount int
	SpecialRoles  []domain.RoleKind
}

type CreateGameOutput struct {
	Game *domain.GameState
}

// Execute deals a new game, assembles its engine and registers the session.
func (uc *CreateGameUseCase) Execute(in CreateGameInput) (*CreateGameOutput, error) {
	seed := uc.seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	g := domain.New(uuid.NewString())
	if err := g.Setup(in.PlayerCount, in.WerewolfCount, in.SpecialRoles, rng); err != nil {
		return nil, err
	}

	behaviors, err := engine.Assemble(g, roles.Options{
		Resolver:      resolver.New(seed),
		Logger:        uc.log,
		HistoryWindow: uc.historyWindow,
	})
	if err != nil {
		return nil, err
	}

	agents := make(map[int]agent.Agent, len(g.Players))
	for _, p := range g.Players {
		ag := uc.agents(p.ID)
		if ag == nil {
			return nil, fmt.Errorf("no agent available for player %d", p.ID)
		}
		agents[p.ID] = ag
	}

	bus := event.NewBus()
	eng, err := engine.New(g, behaviors, agents, bus, uc.log, engine.Options{
		MaxDays:   uc.maxDays,
		TiePolicy: uc.tiePolicy,
		Seed:      seed,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(g); err != nil {
		return nil, err
	}
	uc.sessions.Put(g.ID, &Session{Engine: eng, Bus: bus})

	uc.log.Info().Str("game_id", g.ID).
		Int("players", in.PlayerCount).Int("werewolves", in.WerewolfCount).
		Msg("game created")
	return &CreateGameOutput{Game: g}, nil
}
