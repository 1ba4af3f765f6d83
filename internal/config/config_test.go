package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

func TestLoadDefaultsWithEnvKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEREWOLF_GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "gsk_test", cfg.GroqAPIKey)
	assert.Equal(t, 8, cfg.PlayerCount)
	assert.Equal(t, 2, cfg.WerewolfCount)
	assert.Equal(t, []string{"seer", "witch", "hunter"}, cfg.SpecialRoles)
	assert.Equal(t, 10, cfg.MaxDays)
	assert.Equal(t, string(domain.TieNoElimination), cfg.TiePolicy)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "werewolf.yaml"), []byte(
		"player_count: 10\nwerewolf_count: 3\ngroq_api_key: from-file\n"), 0o644))
	t.Setenv("WEREWOLF_WEREWOLF_COUNT", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PlayerCount)
	assert.Equal(t, 2, cfg.WerewolfCount, "environment beats the config file")
	assert.Equal(t, "from-file", cfg.GroqAPIKey)
}

func TestLoadFailsWithoutProviderKey(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Provider:      "groq",
			GroqAPIKey:    "k",
			PlayerCount:   8,
			WerewolfCount: 2,
			SpecialRoles:  []string{"seer"},
			TiePolicy:     string(domain.TieNoElimination),
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Provider = "gemini"
	assert.Error(t, c.Validate(), "gemini provider needs a gemini key")
	c.GeminiAPIKey = "k"
	assert.NoError(t, c.Validate())

	c = base()
	c.Provider = "smoke-signals"
	assert.Error(t, c.Validate())

	c = base()
	c.WerewolfCount = 4
	assert.ErrorIs(t, c.Validate(), domain.ErrTooManyWerewolves)

	c = base()
	c.SpecialRoles = []string{"werewolf"}
	assert.ErrorIs(t, c.Validate(), domain.ErrUnknownRole)

	c = base()
	c.TiePolicy = "coin-flip"
	assert.Error(t, c.Validate())
}

func TestSpecialsConversion(t *testing.T) {
	c := &Config{SpecialRoles: []string{"seer", "witch"}}
	assert.Equal(t, []domain.RoleKind{domain.RoleSeer, domain.RoleWitch}, c.Specials())
}
