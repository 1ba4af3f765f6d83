// Package engine orchestrates a game: it schedules phases, fans prompts out
// to the seats' agents, applies the domain resolution rules, and publishes
// progress events. Night actions are collected concurrently (no night role
// depends on another's choice); day speech and voting are strictly
// sequential so later speakers react to earlier ones.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/event"
	"github.com/jacky88927/werewolf-llm-game/internal/roles"
)

const defaultMaxDays = 10

// ForcedTermination reports a game stopped at the day limit with no winner.
// It is not a win: the state records GameOver with an empty winner, and
// Leading names the side that was ahead when the clock ran out.
type ForcedTermination struct {
	Days    int
	Leading domain.Team
}

func (e *ForcedTermination) Error() string {
	return fmt.Sprintf("game stopped after %d days with no winner; %s was ahead", e.Days, e.Leading)
}

// Options tunes a game run.
type Options struct {
	// MaxDays caps the game length; reaching it forces termination.
	MaxDays int
	// TiePolicy decides tied day votes. Default: no elimination.
	TiePolicy domain.TiePolicy
	// Seed drives the tie-break lottery when TiePolicy is random.
	Seed int64
}

// Engine drives one game. All public methods serialize on an internal
// mutex; the state it exposes must only be read between calls.
type Engine struct {
	mu        sync.Mutex
	state     *domain.GameState
	behaviors map[int]roles.Behavior
	agents    map[int]agent.Agent
	events    event.Sink
	log       zerolog.Logger
	rng       *rand.Rand
	opts      Options
}

// New assembles an engine over a set-up game. behaviors and agents must
// cover every player id in g.
func New(g *domain.GameState, behaviors map[int]roles.Behavior, agents map[int]agent.Agent, sink event.Sink, log zerolog.Logger, opts Options) (*Engine, error) {
	if sink == nil {
		sink = event.Discard{}
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = defaultMaxDays
	}
	if opts.TiePolicy == "" {
		opts.TiePolicy = domain.TieNoElimination
	}
	for _, p := range g.Players {
		if behaviors[p.ID] == nil {
			return nil, fmt.Errorf("player %d has no role behavior", p.ID)
		}
		if agents[p.ID] == nil {
			return nil, fmt.Errorf("player %d has no agent", p.ID)
		}
	}
	return &Engine{
		state:     g,
		behaviors: behaviors,
		agents:    agents,
		events:    sink,
		log:       log.With().Str("game_id", g.ID).Logger(),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		opts:      opts,
	}, nil
}

// Assemble builds the role behaviors for every player in g. Convenience for
// callers that do not need to customize per-seat construction.
func Assemble(g *domain.GameState, ropts roles.Options) (map[int]roles.Behavior, error) {
	behaviors := make(map[int]roles.Behavior, len(g.Players))
	for _, p := range g.Players {
		b, err := roles.New(p.Role, p.ID, p.Name, ropts)
		if err != nil {
			return nil, err
		}
		behaviors[p.ID] = b
	}
	return behaviors, nil
}

// State returns the underlying game state. It is owned by the engine: read
// it only between Step/Run calls.
func (e *Engine) State() *domain.GameState { return e.state }

// Models maps player ids to the display label of the agent driving them.
func (e *Engine) Models() map[int]string {
	out := make(map[int]string, len(e.agents))
	for id, ag := range e.agents {
		out[id] = agent.Label(ag)
	}
	return out
}

// Memories snapshots every role's private memory for persistence. Roles
// without memory are omitted.
func (e *Engine) Memories() (map[int]json.RawMessage, error) {
	out := make(map[int]json.RawMessage)
	for id, b := range e.behaviors {
		raw, err := b.MemorySnapshot()
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", id, err)
		}
		if raw != nil {
			out[id] = raw
		}
	}
	return out, nil
}

// RestoreMemories loads snapshotted role memories after a resume.
func (e *Engine) RestoreMemories(mem map[int]json.RawMessage) error {
	for id, raw := range mem {
		b, ok := e.behaviors[id]
		if !ok {
			return fmt.Errorf("memory for unknown player %d", id)
		}
		if err := b.RestoreMemory(raw); err != nil {
			return fmt.Errorf("player %d: %w", id, err)
		}
	}
	return nil
}

// Step runs the current phase to completion and advances to the next one.
// An agent failure aborts the phase without advancing; the same phase can be
// retried once the agent recovers.
func (e *Engine) Step(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.GameOver {
		return domain.ErrGameFinished
	}

	phase := e.state.Phase
	e.publishPhase()

	var err error
	switch phase {
	case domain.PhaseSetup:
		// Roles were dealt at setup; the first night begins immediately.
	case domain.PhaseNight:
		err = e.runNight(ctx)
	case domain.PhaseDay:
		err = e.runDay(ctx)
	case domain.PhaseVote:
		err = e.runVote(ctx)
	case domain.PhaseGameOver:
		return domain.ErrGameFinished
	}
	if err != nil {
		e.events.Publish(event.Event{
			Kind: event.KindError, GameID: e.state.ID, Day: e.state.Day,
			Phase: phase, Message: err.Error(),
		})
		return err
	}

	if over, winner := e.state.CheckWinCondition(); over {
		e.state.AdvancePhase()
		e.events.Publish(event.Event{
			Kind: event.KindGameOver, GameID: e.state.ID, Day: e.state.Day,
			Winner: winner, Message: fmt.Sprintf("%s wins", winner),
		})
		e.log.Info().Str("winner", string(winner)).Int("day", e.state.Day).Msg("game over")
		return nil
	}
	e.state.AdvancePhase()

	if e.state.Phase == domain.PhaseNight && e.state.Day > e.opts.MaxDays {
		return e.forceTermination()
	}
	return nil
}

// Run steps the game to completion.
func (e *Engine) Run(ctx context.Context) error {
	for {
		err := e.Step(ctx)
		if err == domain.ErrGameFinished {
			return nil
		}
		if err != nil {
			return err
		}
		e.mu.Lock()
		over := e.state.GameOver
		e.mu.Unlock()
		if over {
			return nil
		}
	}
}

// forceTermination stops a game that hit the day limit. Nobody wins.
func (e *Engine) forceTermination() error {
	g := e.state
	// The wolves count as ahead when they are one elimination from parity;
	// otherwise the village holds the advantage.
	leading := domain.TeamVillage
	wolves := g.AliveByTeam(domain.TeamWerewolf)
	if wolves >= g.AliveByTeam(domain.TeamVillage)-1 {
		leading = domain.TeamWerewolf
	}
	g.GameOver = true
	g.Winner = ""
	g.Phase = domain.PhaseGameOver
	g.Event("Game stopped at the %d-day limit with no winner", e.opts.MaxDays)

	ft := &ForcedTermination{Days: e.opts.MaxDays, Leading: leading}
	e.events.Publish(event.Event{
		Kind: event.KindGameOver, GameID: g.ID, Day: g.Day, Message: ft.Error(),
	})
	e.log.Warn().Int("max_days", e.opts.MaxDays).Str("leading", string(leading)).Msg("forced termination")
	return ft
}

func (e *Engine) publishPhase() {
	e.events.Publish(event.Event{
		Kind: event.KindPhase, GameID: e.state.ID,
		Day: e.state.Day, Phase: e.state.Phase,
	})
}

// runNight collects every living player's night action concurrently, then
// resolves them in the fixed priority order. A single unreachable agent
// fails the whole night; nothing is applied.
func (e *Engine) runNight(ctx context.Context) error {
	g := e.state

	var amu sync.Mutex
	actions := make(map[int]domain.Action)

	p := pool.New().WithErrors().WithContext(ctx)
	for _, pl := range g.Alive() {
		pl := pl
		p.Go(func(ctx context.Context) error {
			act, err := e.behaviors[pl.ID].NightAction(ctx, g, e.agents[pl.ID])
			if err != nil {
				return err
			}
			amu.Lock()
			actions[pl.ID] = act
			amu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("night %d: %w", g.Day, err)
	}

	deaths := g.ApplyNightResolution(actions)
	e.log.Info().Int("day", g.Day).Int("deaths", len(deaths)).Msg("night resolved")
	for i := range deaths {
		e.events.Publish(event.Event{
			Kind: event.KindDeath, GameID: g.ID, Day: g.Day,
			Phase: domain.PhaseNight, Death: &deaths[i],
		})
	}
	return nil
}

// runDay collects one speech per living player, strictly in seat order, so
// each speaker sees everything said before their turn.
func (e *Engine) runDay(ctx context.Context) error {
	g := e.state
	for _, pl := range g.Alive() {
		speech, err := e.behaviors[pl.ID].DayDiscussion(ctx, g, e.agents[pl.ID])
		if err != nil {
			return fmt.Errorf("day %d: %w", g.Day, err)
		}
		g.AddDiscussion(pl.ID, speech)
		d := g.CurrentDiscussions[len(g.CurrentDiscussions)-1]
		e.events.Publish(event.Event{
			Kind: event.KindDiscussion, GameID: g.ID, Day: g.Day,
			Phase: domain.PhaseDay, Discussion: &d,
		})
	}
	return nil
}

// runVote collects one vote per living player in seat order and resolves the
// elimination, applying the configured tie policy.
func (e *Engine) runVote(ctx context.Context) error {
	g := e.state
	votes := make(map[int]int)
	for _, pl := range g.Alive() {
		target, err := e.behaviors[pl.ID].Vote(ctx, g, e.agents[pl.ID])
		if err != nil {
			return fmt.Errorf("vote, day %d: %w", g.Day, err)
		}
		if target != 0 {
			votes[pl.ID] = target
		}
	}

	outcome := g.ApplyVoteResolution(votes)
	if outcome.Tie && e.opts.TiePolicy == domain.TieRandom && len(outcome.TiedTargets) > 0 {
		pick := outcome.TiedTargets[e.rng.Intn(len(outcome.TiedTargets))]
		g.Event("Day %d: the tie is broken by lot", g.Day)
		if d := g.EliminateByVote(pick); d != nil {
			outcome.Eliminated = d
		} else {
			outcome.FoolRevealed = true
		}
	}

	e.events.Publish(event.Event{
		Kind: event.KindVote, GameID: g.ID, Day: g.Day,
		Phase: domain.PhaseVote, Tally: outcome.Tally,
	})
	if outcome.Eliminated != nil {
		e.events.Publish(event.Event{
			Kind: event.KindElimination, GameID: g.ID, Day: g.Day,
			Phase: domain.PhaseVote, Death: outcome.Eliminated,
		})
	}
	e.log.Info().Int("day", g.Day).Bool("tie", outcome.Tie).
		Bool("fool_revealed", outcome.FoolRevealed).Msg("vote resolved")
	return nil
}
