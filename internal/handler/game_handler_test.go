package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
	"github.com/jacky88927/werewolf-llm-game/internal/usecase"
)

const (
	testWait = 2 * time.Second
	testTick = 10 * time.Millisecond
)

type echoAgent struct{ reply string }

func (e *echoAgent) Respond(context.Context, string, string, float64, int) (string, error) {
	return e.reply, nil
}

func (e *echoAgent) Name() string { return "echo" }

func newTestServer(t *testing.T) (*httptest.Server, *PromptHub) {
	t.Helper()
	log := zerolog.Nop()
	repo := repository.NewInMemoryGameRepository()
	sessions := usecase.NewSessionStore()

	createUC := usecase.NewCreateGameUseCase(usecase.CreateGameDeps{
		Repo:     repo,
		Sessions: sessions,
		Agents: func(playerID int) agent.Agent {
			return &echoAgent{reply: "I vote for player 1"}
		},
		Log:       log,
		MaxDays:   10,
		TiePolicy: domain.TieNoElimination,
		Seed:      1,
	})
	runUC := usecase.NewRunPhaseUseCase(repo, sessions, nil, log)
	prompts := NewPromptHub()

	mux := http.NewServeMux()
	NewGameHandler(repo, sessions, createUC, runUC, prompts).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, prompts
}

func createGame(t *testing.T, srv *httptest.Server) domain.GameState {
	t.Helper()
	resp, err := http.Post(srv.URL+"/games", "application/json",
		strings.NewReader(`{"player_count":6,"werewolf_count":1,"special_roles":["seer"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var g domain.GameState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	return g
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndFetchGame(t *testing.T) {
	srv, _ := newTestServer(t)
	g := createGame(t, srv)

	require.NotEmpty(t, g.ID)
	assert.Equal(t, domain.PhaseSetup, g.Phase)
	assert.Len(t, g.Players, 6)

	resp, err := http.Get(srv.URL + "/games/" + g.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.GameState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, g.ID, got.ID)
}

func TestCreateGameRejectsBadSetup(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/games", "application/json",
		strings.NewReader(`{"player_count":4,"werewolf_count":2}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListGames(t *testing.T) {
	srv, _ := newTestServer(t)
	createGame(t, srv)
	createGame(t, srv)

	resp, err := http.Get(srv.URL + "/games")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var games []domain.GameState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	assert.Len(t, games, 2)
}

func TestGetUnknownGame(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/games/who-dis")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunPhaseAdvancesSetupToNight(t *testing.T) {
	srv, _ := newTestServer(t)
	g := createGame(t, srv)

	resp, err := http.Post(srv.URL+"/games/"+g.ID+"/phase", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Game     *domain.GameState `json:"Game"`
		Finished bool              `json:"Finished"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Game)
	assert.Equal(t, domain.PhaseNight, out.Game.Phase)
	assert.False(t, out.Finished)
}

func TestRunPhaseUnknownGame(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/games/who-dis/phase", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPromptAndReplyQueue(t *testing.T) {
	srv, prompts := newTestServer(t)
	g := createGame(t, srv)

	// Nothing pending yet.
	resp, err := http.Get(srv.URL + "/games/" + g.ID + "/prompt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A human seat asks for input.
	replyCh := make(chan string, 1)
	requests := make(chan agent.PromptRequest, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go prompts.Serve(ctx, requests)
	requests <- agent.PromptRequest{PlayerName: "Player 2", Prompt: "Who do you vote for?", Reply: replyCh}

	require.Eventually(t, func() bool {
		_, err := prompts.Next()
		return err == nil
	}, testWait, testTick)

	resp, err = http.Get(srv.URL + "/games/" + g.ID + "/prompt")
	require.NoError(t, err)
	var pr map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	resp.Body.Close()
	assert.Equal(t, "Player 2", pr["player_name"])

	resp, err = http.Post(srv.URL+"/games/"+g.ID+"/reply", "application/json",
		strings.NewReader(`{"reply":"I vote for player 3"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "I vote for player 3", <-replyCh)

	// The queue is drained again.
	resp, err = http.Post(srv.URL+"/games/"+g.ID+"/reply", "application/json",
		strings.NewReader(`{"reply":"again"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReplyRequiresBody(t *testing.T) {
	srv, _ := newTestServer(t)
	g := createGame(t, srv)

	resp, err := http.Post(srv.URL+"/games/"+g.ID+"/reply", "application/json",
		strings.NewReader(`{"reply":"  "}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
