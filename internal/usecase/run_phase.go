package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/persist"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
)

var ErrSessionNotFound = errors.New("no live session for game")

// RunPhaseUseCase advances one live game by one phase and archives it when
// it ends.
type RunPhaseUseCase struct {
	repo     repository.GameRepository
	sessions *SessionStore
	archive  *repository.Archive
	log      zerolog.Logger
}

func NewRunPhaseUseCase(repo repository.GameRepository, sessions *SessionStore, archive *repository.Archive, log zerolog.Logger) *RunPhaseUseCase {
	return &RunPhaseUseCase{repo: repo, sessions: sessions, archive: archive, log: log}
}

type RunPhaseOutput struct {
	Game *domain.GameState
	// Finished is set once the game ended, by win or by the day limit.
	Finished bool
}

// Execute runs the game's current phase. Agent failures and forced
// termination surface as errors; a forced termination still marks and
// archives the game as finished.
func (uc *RunPhaseUseCase) Execute(ctx context.Context, gameID string) (*RunPhaseOutput, error) {
	sess, ok := uc.sessions.Get(gameID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	stepErr := sess.Engine.Step(ctx)
	g := sess.Engine.State()

	if err := uc.repo.Update(g); err != nil {
		return nil, err
	}

	var forced *engine.ForcedTermination
	switch {
	case stepErr == nil, errors.As(stepErr, &forced):
		// Both leave a consistent state; forced termination also ends the game.
	default:
		return nil, stepErr
	}

	out := &RunPhaseOutput{Game: g, Finished: g.GameOver}
	if g.GameOver {
		uc.archiveFinished(ctx, sess)
		uc.sessions.Delete(gameID)
	}
	return out, stepErr
}

// archiveFinished moves a finished game into the SQLite archive. Failures
// are logged, not returned: the game result is already final and served
// from the in-memory repository.
func (uc *RunPhaseUseCase) archiveFinished(ctx context.Context, sess *Session) {
	if uc.archive == nil {
		return
	}
	g := sess.Engine.State()
	mem, err := sess.Engine.Memories()
	if err != nil {
		uc.log.Error().Err(err).Str("game_id", g.ID).Msg("snapshot role memories for archive")
		mem = nil
	}
	snap := &persist.Snapshot{
		SavedAt:  time.Now(),
		Game:     g,
		Memories: mem,
		Models:   sess.Engine.Models(),
	}
	if err := uc.archive.Store(ctx, snap); err != nil {
		uc.log.Error().Err(err).Str("game_id", g.ID).Msg("archive finished game")
		return
	}
	uc.log.Info().Str("game_id", g.ID).Str("winner", string(g.Winner)).Msg("game archived")
}
