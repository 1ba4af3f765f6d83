package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/persist"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
	"github.com/jacky88927/werewolf-llm-game/internal/usecase"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one full game in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		humanRequests := make(chan agent.PromptRequest, 16)
		go agent.ConsoleRelay(ctx, humanRequests, os.Stdin, os.Stdout)

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

		out, err := createUC.Execute(usecase.CreateGameInput{
			PlayerCount:   cfg.PlayerCount,
			WerewolfCount: cfg.WerewolfCount,
			SpecialRoles:  cfg.Specials(),
		})
		if err != nil {
			return err
		}
		gameID := out.Game.ID

		sess, _ := sessions.Get(gameID)
		events, unsubscribe := sess.Bus.Subscribe()
		defer unsubscribe()
		renderDone := make(chan struct{})
		go func() {
			defer close(renderDone)
			renderEvents(os.Stdout, events)
		}()

		// Snapshot before the loop: the session is gone once the game ends.
		eng := sess.Engine

		var runErr error
		for {
			res, err := runUC.Execute(ctx, gameID)
			if err != nil {
				var forced *engine.ForcedTermination
				if errors.As(err, &forced) {
					runErr = nil
					break
				}
				runErr = err
				break
			}
			if res.Finished {
				break
			}
		}

		unsubscribe()
		<-renderDone

		if runErr != nil {
			return runErr
		}
		return saveGame(cfg.SaveDir, eng)
	},
}

// saveGame writes a timestamped snapshot of the finished (or interrupted)
// game to the save directory.
func saveGame(dir string, eng *engine.Engine) error {
	mem, err := eng.Memories()
	if err != nil {
		return err
	}
	now := time.Now()
	path := filepath.Join(dir, persist.Filename(now))
	snap := &persist.Snapshot{
		SavedAt:  now,
		Game:     eng.State(),
		Memories: mem,
		Models:   eng.Models(),
	}
	if err := persist.Save(path, snap); err != nil {
		return err
	}
	fmt.Printf("saved game to %s\n", path)
	return nil
}
