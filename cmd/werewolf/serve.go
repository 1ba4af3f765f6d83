package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/handler"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
	"github.com/jacky88927/werewolf-llm-game/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game engine over HTTP with SSE streaming",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		humanRequests := make(chan agent.PromptRequest, 16)
		factory, err := buildAgentFactory(ctx, cfg, humanRequests)
		if err != nil {
			return err
		}

		archive, err := repository.NewArchive(cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer archive.Close()

		repo := repository.NewInMemoryGameRepository()
		sessions := usecase.NewSessionStore()

		createUC := usecase.NewCreateGameUseCase(usecase.CreateGameDeps{
			Repo:          repo,
			Sessions:      sessions,
			Agents:        factory,
			Log:           log,
			MaxDays:       cfg.MaxDays,
			TiePolicy:     domain.TiePolicy(cfg.TiePolicy),
			HistoryWindow: cfg.HistoryWindow,
			Seed:          cfg.Seed,
		})
		runUC := usecase.NewRunPhaseUseCase(repo, sessions, archive, log)

		prompts := handler.NewPromptHub()
		go prompts.Serve(ctx, humanRequests)

		mux := http.NewServeMux()
		handler.NewGameHandler(repo, sessions, createUC, runUC, prompts).RegisterRoutes(mux)

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: mux,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}
