package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jacky88927/werewolf-llm-game/internal/event"
	"github.com/jacky88927/werewolf-llm-game/internal/persist"
	"github.com/jacky88927/werewolf-llm-game/internal/repository"
)

var (
	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginTop(1)

	deathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	speechStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	speakerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderEvents pretty-prints the engine's event stream until the channel
// closes.
func renderEvents(w io.Writer, events <-chan event.Event) {
	for ev := range events {
		switch ev.Kind {
		case event.KindPhase:
			fmt.Fprintln(w, phaseStyle.Render(fmt.Sprintf("— Day %d: %s —", ev.Day, ev.Phase)))
		case event.KindDeath:
			if ev.Death != nil {
				fmt.Fprintln(w, deathStyle.Render(
					fmt.Sprintf("☠ %s was killed in the night (they were the %s)", ev.Death.Name, ev.Death.Role)))
			}
		case event.KindDiscussion:
			if ev.Discussion != nil {
				fmt.Fprintf(w, "%s %s\n",
					speakerStyle.Render(ev.Discussion.PlayerName+":"),
					speechStyle.Render(ev.Discussion.Content))
			}
		case event.KindVote:
			fmt.Fprintln(w, dimStyle.Render("votes: "+formatTally(ev.Tally)))
		case event.KindElimination:
			if ev.Death != nil {
				fmt.Fprintln(w, deathStyle.Render(
					fmt.Sprintf("✗ %s was voted out (they were the %s)", ev.Death.Name, ev.Death.Role)))
			}
		case event.KindGameOver:
			fmt.Fprintln(w, winnerStyle.Render(ev.Message))
		case event.KindError:
			fmt.Fprintln(w, deathStyle.Render("error: "+ev.Message))
		}
	}
}

func formatTally(tally map[int]int) string {
	ids := make([]int, 0, len(tally))
	for id := range tally {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("Player %d: %d", id, tally[id]))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// renderSummary prints the final table of a saved game: every seat with its
// role, fate, and the model that played it.
func renderSummary(w io.Writer, snap *persist.Snapshot) {
	s := snap.Game.Summarize(snap.Models)

	fmt.Fprintln(w, phaseStyle.Render(fmt.Sprintf("Game %s — day %d, %s", snap.Game.ID, s.Day, s.Phase)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("saved %s · %d werewolves and %d villagers alive",
		snap.SavedAt.Format("2006-01-02 15:04:05"), s.AliveWerewolves, s.AliveVillagers)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %-12s %-8s %s", "PLAYER", "ROLE", "FATE", "MODEL")))
	for _, p := range s.Players {
		fate := "alive"
		line := fmt.Sprintf("%-12s %-12s %-8s %s", p.Name, p.Role, fate, p.Model)
		if !p.IsAlive {
			fate = "dead"
			line = dimStyle.Render(fmt.Sprintf("%-12s %-12s %-8s %s", p.Name, p.Role, fate, p.Model))
		}
		fmt.Fprintln(w, line)
	}

	if n := len(snap.Game.EventHistory); n > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("EVENT LOG"))
		start := 0
		if n > 20 {
			start = n - 20
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("(%d earlier entries omitted)", start)))
		}
		for _, line := range snap.Game.EventHistory[start:] {
			fmt.Fprintln(w, speechStyle.Render(line))
		}
	}

	fmt.Fprintln(w)
	switch {
	case s.GameOver && s.Winner != "":
		fmt.Fprintln(w, winnerStyle.Render(fmt.Sprintf("%s wins", s.Winner)))
	case s.GameOver:
		fmt.Fprintln(w, winnerStyle.Render("stopped at the day limit, no winner"))
	default:
		fmt.Fprintln(w, dimStyle.Render("game still in progress"))
	}
}

// renderArchiveList prints the archived games, newest first.
func renderArchiveList(w io.Writer, games []repository.ArchivedGame) {
	if len(games) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no archived games"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-38s %-20s %-5s %s", "ID", "SAVED", "DAY", "WINNER")))
	for _, g := range games {
		winner := g.Winner
		if winner == "" {
			winner = "none"
		}
		fmt.Fprintf(w, "%-38s %-20s %-5d %s\n",
			g.ID, g.SavedAt.Format("2006-01-02 15:04:05"), g.Day, winner)
	}
}
