package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/domain"
	"github.com/jacky88927/werewolf-llm-game/internal/engine"
	"github.com/jacky88927/werewolf-llm-game/internal/event"
	"github.com/jacky88927/werewolf-llm-game/internal/persist"
	"github.com/jacky88927/werewolf-llm-game/internal/resolver"
	"github.com/jacky88927/werewolf-llm-game/internal/roles"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <snapshot.json>",
	Short: "Resume a saved game and play it to the end",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		snap, err := persist.Load(args[0])
		if err != nil {
			return err
		}
		g := snap.Game
		if g.GameOver {
			return domain.ErrGameFinished
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		humanRequests := make(chan agent.PromptRequest, 16)
		go agent.ConsoleRelay(ctx, humanRequests, os.Stdin, os.Stdout)

		factory, err := buildAgentFactory(ctx, cfg, humanRequests)
		if err != nil {
			return err
		}

		seed := cfg.Seed
		if seed == 0 {
			seed = int64(len(g.EventHistory)) + 1
		}
		behaviors, err := engine.Assemble(g, roles.Options{
			Resolver:      resolver.New(seed),
			Logger:        log,
			HistoryWindow: cfg.HistoryWindow,
		})
		if err != nil {
			return err
		}

		agents := make(map[int]agent.Agent, len(g.Players))
		for _, p := range g.Players {
			agents[p.ID] = factory(p.ID)
		}

		bus := event.NewBus()
		eng, err := engine.New(g, behaviors, agents, bus, log, engine.Options{
			MaxDays:   cfg.MaxDays,
			TiePolicy: domain.TiePolicy(cfg.TiePolicy),
			Seed:      seed,
		})
		if err != nil {
			return err
		}
		if err := eng.RestoreMemories(snap.Memories); err != nil {
			return err
		}

		events, unsubscribe := bus.Subscribe()
		renderDone := make(chan struct{})
		go func() {
			defer close(renderDone)
			renderEvents(os.Stdout, events)
		}()

		runErr := eng.Run(ctx)
		unsubscribe()
		<-renderDone

		var forced *engine.ForcedTermination
		if runErr != nil && !errors.As(runErr, &forced) {
			return runErr
		}
		return saveGame(cfg.SaveDir, eng)
	},
}
