package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
)

type cannedAgent struct{ reply string }

func (c *cannedAgent) Respond(context.Context, string, string, float64, int) (string, error) {
	return c.reply, nil
}

func (c *cannedAgent) Name() string { return "canned" }

func newFixture(t *testing.T) (*CreateGameUseCase, *RunPhaseUseCase, *SessionStore, *repository.InMemoryGameRepository, *repository.Archive) {
	t.Helper()
	log := zerolog.Nop()
	repo := repository.NewInMemoryGameRepository()
	sessions := NewSessionStore()
	archive, err := repository.NewArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	createUC := NewCreateGameUseCase(CreateGameDeps{
		Repo:     repo,
		Sessions: sessions,
		Agents: func(playerID int) agent.Agent {
			return &cannedAgent{reply: "I pick player 1"}
		},
		Log:       log,
		MaxDays:   4,
		TiePolicy: domain.TieNoElimination,
		Seed:      1,
	})
	runUC := NewRunPhaseUseCase(repo, sessions, archive, log)
	return createUC, runUC, sessions, repo, archive
}

func TestCreateGameRegistersSessionAndRepo(t *testing.T) {
	createUC, _, sessions, repo, _ := newFixture(t)

	out, err := createUC.Execute(CreateGameInput{
		PlayerCount:   6,
		WerewolfCount: 1,
		SpecialRoles:  []domain.RoleKind{domain.RoleSeer},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Game)
	assert.Len(t, out.Game.Players, 6)

	stored, err := repo.Get(out.Game.ID)
	require.NoError(t, err)
	assert.Same(t, out.Game, stored)

	sess, ok := sessions.Get(out.Game.ID)
	require.True(t, ok)
	assert.NotNil(t, sess.Engine)
	assert.NotNil(t, sess.Bus)
}

func TestCreateGameRejectsBadSetup(t *testing.T) {
	createUC, _, _, _, _ := newFixture(t)
	_, err := createUC.Execute(CreateGameInput{PlayerCount: 4, WerewolfCount: 2})
	assert.ErrorIs(t, err, domain.ErrTooManyWerewolves)
}

func TestRunPhaseUnknownSession(t *testing.T) {
	_, runUC, _, _, _ := newFixture(t)
	_, err := runUC.Execute(context.Background(), "who-dis")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRunPhaseToCompletionArchivesAndEvictsSession(t *testing.T) {
	createUC, runUC, sessions, _, archive := newFixture(t)

	out, err := createUC.Execute(CreateGameInput{PlayerCount: 5, WerewolfCount: 1})
	require.NoError(t, err)
	gameID := out.Game.ID

	ctx := context.Background()
	var finished bool
	for i := 0; i < 50; i++ {
		res, err := runUC.Execute(ctx, gameID)
		if err != nil {
			var forced *engine.ForcedTermination
			require.True(t, errors.As(err, &forced), "unexpected error: %v", err)
		}
		require.NotNil(t, res)
		if res.Finished {
			finished = true
			break
		}
	}
	require.True(t, finished, "the day limit guarantees termination")

	_, ok := sessions.Get(gameID)
	assert.False(t, ok, "finished games leave the session store")

	snap, err := archive.Get(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, snap.Game.GameOver)
	assert.Equal(t, "canned", snap.Models[1])

	// The same phase cannot run again.
	_, err = runUC.Execute(ctx, gameID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
