package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacky88927/werewolf-llm-game/internal/persist"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
)

var (
	summaryList bool
	summaryID   string
)

func init() {
	summaryCmd.Flags().BoolVar(&summaryList, "list", false, "list archived games")
	summaryCmd.Flags().StringVar(&summaryID, "id", "", "summarize an archived game by id")
}

var summaryCmd = &cobra.Command{
	Use:   "summary [snapshot.json]",
	Short: "Report on a saved or archived game",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		if summaryList {
			archive, err := repository.NewArchive(cfg.ArchivePath)
			if err != nil {
				return err
			}
			defer archive.Close()
			games, err := archive.List(context.Background())
			if err != nil {
				return err
			}
			renderArchiveList(os.Stdout, games)
			return nil
		}

		var snap *persist.Snapshot
		switch {
		case summaryID != "":
			archive, err := repository.NewArchive(cfg.ArchivePath)
			if err != nil {
				return err
			}
			defer archive.Close()
			snap, err = archive.Get(context.Background(), summaryID)
			if err != nil {
				return err
			}
		case len(args) == 1:
			snap, err = persist.Load(args[0])
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("pass a snapshot file, --id, or --list")
		}

		renderSummary(os.Stdout, snap)
		return nil
	},
}
