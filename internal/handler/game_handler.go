package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
	"github.com/jacky88927/werewolf-llm-game/internal/usecase"
)

// phaseTimeout bounds one phase of LLM calls; human seats are exempt only
// as far as this allows.
const phaseTimeout = 180 * time.Second

type GameHandler struct {
	gameRepo     repository.GameRepository
	sessions     *usecase.SessionStore
	createGameUC *usecase.CreateGameUseCase
	runPhaseUC   *usecase.RunPhaseUseCase
	prompts      *PromptHub
}

func NewGameHandler(
	gameRepo repository.GameRepository,
	sessions *usecase.SessionStore,
	createGameUC *usecase.CreateGameUseCase,
	runPhaseUC *usecase.RunPhaseUseCase,
	prompts *PromptHub,
) *GameHandler {
	return &GameHandler{
		gameRepo:     gameRepo,
		sessions:     sessions,
		createGameUC: createGameUC,
		runPhaseUC:   runPhaseUC,
		prompts:      prompts,
	}
}

func (h *GameHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/games", h.handleGames)
	mux.HandleFunc("/games/", h.handleGameByID)
}

func (h *GameHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /games -> create game
// GET  /games -> list games
func (h *GameHandler) handleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			PlayerCount   int      `json:"player_count"`
			WerewolfCount int      `json:"werewolf_count"`
			SpecialRoles  []string `json:"special_roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		specials := make([]domain.RoleKind, 0, len(req.SpecialRoles))
		for _, s := range req.SpecialRoles {
			specials = append(specials, domain.RoleKind(s))
		}
		out, err := h.createGameUC.Execute(usecase.CreateGameInput{
			PlayerCount:   req.PlayerCount,
			WerewolfCount: req.WerewolfCount,
			SpecialRoles:  specials,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, out.Game)

	case http.MethodGet:
		games, err := h.gameRepo.List()
		if err != nil {
			http.Error(w, "error listing games", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, games)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET  /games/{id}              -> game state
// POST /games/{id}/phase        -> run current phase (no streaming)
// POST /games/{id}/phase/stream -> run current phase over SSE
// GET  /games/{id}/prompt       -> oldest pending human prompt
// POST /games/{id}/reply        -> answer the oldest pending human prompt
func (h *GameHandler) handleGameByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/games/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	gameID := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		game, err := h.gameRepo.Get(gameID)
		if err != nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, game)
		return
	}

	switch parts[1] {
	case "phase":
		if len(parts) >= 3 && parts[2] == "stream" {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h.handleRunPhaseStream(w, r, gameID)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleRunPhase(w, r, gameID)
	case "prompt":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handlePrompt(w, r, gameID)
	case "reply":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleReply(w, r, gameID)
	default:
		http.NotFound(w, r)
	}
}

func (h *GameHandler) handleRunPhase(w http.ResponseWriter, r *http.Request, gameID string) {
	ctx, cancel := context.WithTimeout(r.Context(), phaseTimeout)
	defer cancel()

	out, err := h.runPhaseUC.Execute(ctx, gameID)
	if err != nil {
		var forced *engine.ForcedTermination
		switch {
		case errors.As(err, &forced):
			// The game ended at the day limit; out carries the final state.
		case errors.Is(err, usecase.ErrSessionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case errors.Is(err, domain.ErrGameFinished):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRunPhaseStream runs the phase while relaying the engine's events as
// SSE. The phase runs in a goroutine; events flow until it finishes.
func (h *GameHandler) handleRunPhaseStream(w http.ResponseWriter, r *http.Request, gameID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sess, found := h.sessions.Get(gameID)
	if !found {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), phaseTimeout)
	defer cancel()

	events, unsubscribe := sess.Bus.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		_, err := h.runPhaseUC.Execute(ctx, gameID)
		done <- err
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err := sseWriteEvent(w, flusher, string(ev.Kind), ev); err != nil {
				return
			}
		case err := <-done:
			// Drain whatever the bus already accepted before the phase ended.
			for {
				select {
				case ev := <-events:
					if werr := sseWriteEvent(w, flusher, string(ev.Kind), ev); werr != nil {
						return
					}
					continue
				default:
				}
				break
			}
			var forced *engine.ForcedTermination
			if err != nil && !errors.As(err, &forced) {
				_ = sseWriteEvent(w, flusher, "error", map[string]string{"error": err.Error()})
				return
			}
			game, gerr := h.gameRepo.Get(gameID)
			if gerr != nil {
				_ = sseWriteEvent(w, flusher, "error", map[string]string{"error": gerr.Error()})
				return
			}
			_ = sseWriteEvent(w, flusher, "phase_end", game)
			return
		}
	}
}

func (h *GameHandler) handlePrompt(w http.ResponseWriter, r *http.Request, gameID string) {
	if _, err := h.gameRepo.Get(gameID); err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	req, err := h.prompts.Next()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"player_name":    req.PlayerName,
		"prompt":         req.Prompt,
		"system_message": req.SystemMessage,
	})
}

func (h *GameHandler) handleReply(w http.ResponseWriter, r *http.Request, gameID string) {
	if _, err := h.gameRepo.Get(gameID); err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	var req struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Reply) == "" {
		http.Error(w, "reply is required", http.StatusBadRequest)
		return
	}
	if err := h.prompts.Reply(req.Reply); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sseWriteEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var data []byte
	var err error

	switch v := payload.(type) {
	case string:
		data = []byte(v)
	default:
		data, err = json.Marshal(v)
		if err != nil {
			return err
		}
	}

	if event != "" {
		if _, err := w.Write([]byte("event: " + event + "\n")); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n\n")); err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
