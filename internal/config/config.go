// Package config loads runtime settings from config files, environment
// variables and defaults, in that order of increasing precedence.
// Environment variables use the WEREWOLF_ prefix: WEREWOLF_GROQ_API_KEY,
// WEREWOLF_MAX_DAYS, and so on.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`

	// Provider selects who drives the AI seats: "groq", "gemini" or
	// "mixed" (alternating seats between the two).
	Provider     string `mapstructure:"provider"`
	GroqAPIKey   string `mapstructure:"groq_api_key"`
	GroqModel    string `mapstructure:"groq_model"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	PlayerCount   int      `mapstructure:"player_count"`
	WerewolfCount int      `mapstructure:"werewolf_count"`
	SpecialRoles  []string `mapstructure:"special_roles"`
	// HumanSeats lists player ids taken over by humans instead of models.
	HumanSeats []int `mapstructure:"human_seats"`

	MaxDays       int    `mapstructure:"max_days"`
	TiePolicy     string `mapstructure:"tie_policy"`
	HistoryWindow int    `mapstructure:"history_window"`
	Seed          int64  `mapstructure:"seed"`

	SaveDir     string `mapstructure:"save_dir"`
	ArchivePath string `mapstructure:"archive_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("provider", "groq")
	// Keys without a meaningful default still need to be registered, or
	// AutomaticEnv will not surface them during Unmarshal.
	v.SetDefault("groq_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("human_seats", []int{})
	v.SetDefault("groq_model", "llama-3.3-70b-versatile")
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("player_count", 8)
	v.SetDefault("werewolf_count", 2)
	v.SetDefault("special_roles", []string{"seer", "witch", "hunter"})
	v.SetDefault("max_days", 10)
	v.SetDefault("tie_policy", string(domain.TieNoElimination))
	v.SetDefault("history_window", 15)
	v.SetDefault("seed", 0)
	v.SetDefault("save_dir", "games")
	v.SetDefault("archive_path", "games/archive.db")
}

// Load reads werewolf.{yaml,json,toml} from the working directory when
// present, then applies WEREWOLF_-prefixed environment variables on top.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("werewolf")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("WEREWOLF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot start with. A missing API key
// is only an error for the provider actually selected.
func (c *Config) Validate() error {
	switch c.Provider {
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("provider is groq but groq_api_key is empty")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("provider is gemini but gemini_api_key is empty")
		}
	case "mixed":
		if c.GroqAPIKey == "" || c.GeminiAPIKey == "" {
			return fmt.Errorf("provider is mixed but an api key is empty")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.WerewolfCount < 1 || c.WerewolfCount*2 >= c.PlayerCount {
		return fmt.Errorf("%w: %d werewolves among %d players",
			domain.ErrTooManyWerewolves, c.WerewolfCount, c.PlayerCount)
	}
	for _, s := range c.SpecialRoles {
		kind := domain.RoleKind(s)
		if !kind.Valid() || kind == domain.RoleWerewolf || kind == domain.RoleVillager {
			return fmt.Errorf("%w: %q", domain.ErrUnknownRole, s)
		}
	}
	switch domain.TiePolicy(c.TiePolicy) {
	case domain.TieNoElimination, domain.TieRandom:
	default:
		return fmt.Errorf("unknown tie_policy %q", c.TiePolicy)
	}
	return nil
}

// Specials converts the configured role names to typed kinds. Call after
// Validate.
func (c *Config) Specials() []domain.RoleKind {
	out := make([]domain.RoleKind, 0, len(c.SpecialRoles))
	for _, s := range c.SpecialRoles {
		out = append(out, domain.RoleKind(s))
	}
	return out
}
