package main

import (
	"context"
	"fmt"

	"github.com/jacky88927/werewolf-llm-game/internal/agent"
	"github.com/jacky88927/werewolf-llm-game/internal/config"
	"github.com/jacky88927/werewolf-llm-game/internal/usecase"
)

// buildAgentFactory wires seats to providers. With the mixed provider,
// seats alternate between Groq and Gemini so runs double as a
// model-vs-model comparison. Seats listed in human_seats are handed to a
// human through the requests channel instead.
func buildAgentFactory(ctx context.Context, cfg *config.Config, humanRequests chan<- agent.PromptRequest) (usecase.AgentFactory, error) {
	var groq, gemini agent.Agent
	var err error

	switch cfg.Provider {
	case "groq":
		groq = agent.NewGroqAgent(cfg.GroqAPIKey, cfg.GroqModel)
	case "gemini":
		gemini, err = agent.NewGeminiAgent(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
	case "mixed":
		groq = agent.NewGroqAgent(cfg.GroqAPIKey, cfg.GroqModel)
		gemini, err = agent.NewGeminiAgent(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	human := make(map[int]bool, len(cfg.HumanSeats))
	for _, id := range cfg.HumanSeats {
		human[id] = true
	}

	return func(playerID int) agent.Agent {
		if human[playerID] && humanRequests != nil {
			return agent.NewHumanAgent(fmt.Sprintf("Player %d", playerID), humanRequests)
		}
		switch cfg.Provider {
		case "groq":
			return groq
		case "gemini":
			return gemini
		default: // mixed: odd seats Groq, even seats Gemini
			if playerID%2 == 1 {
				return groq
			}
			return gemini
		}
	}, nil
}
