package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Incarcer/FFA/internal/draft"
)

// LeagueSettings mirrors the draft_settings block of the league settings file.
type LeagueSettings struct {
	TotalRounds     int            `yaml:"total_rounds"`
	TotalTeams      int            `yaml:"total_teams"`
	DraftOrder      string         `yaml:"draft_order"`
	RosterStructure map[string]int `yaml:"roster_structure"`
}

type settingsFile struct {
	DraftSettings LeagueSettings `yaml:"draft_settings"`
}

// Config is everything the watch command needs: where the draft server lives,
// where to expose the local projection, and the league's shape.
type Config struct {
	ServerURL  string
	FeedURL    string
	ListenAddr string
	League     LeagueSettings
}

// Load reads env (via .env if present) and, when settingsPath is non-empty,
// the league settings YAML. Env vars: DRAFTWATCH_SERVER_URL,
// DRAFTWATCH_FEED_URL, DRAFTWATCH_LISTEN_ADDR.
func Load(settingsPath string) (Config, error) {
	_ = godotenv.Load() // optional; real env wins

	cfg := Config{
		ServerURL:  envOr("DRAFTWATCH_SERVER_URL", "http://localhost:8000"),
		FeedURL:    envOr("DRAFTWATCH_FEED_URL", "ws://localhost:8000/socket.io"),
		ListenAddr: envOr("DRAFTWATCH_LISTEN_ADDR", ":8080"),
	}

	if settingsPath != "" {
		league, err := LoadLeagueSettings(settingsPath)
		if err != nil {
			return Config{}, err
		}
		cfg.League = league
	}
	return cfg, nil
}

func LoadLeagueSettings(path string) (LeagueSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LeagueSettings{}, fmt.Errorf("league settings: %w", err)
	}
	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return LeagueSettings{}, fmt.Errorf("league settings %s: %w", path, err)
	}
	ls := file.DraftSettings
	if ls.TotalRounds <= 0 || ls.TotalTeams <= 0 {
		return LeagueSettings{}, fmt.Errorf("league settings %s: total_rounds and total_teams must be positive", path)
	}
	switch ls.DraftOrder {
	case "", draft.OrderLinear, draft.OrderSnake:
	default:
		return LeagueSettings{}, fmt.Errorf("league settings %s: unknown draft_order %q", path, ls.DraftOrder)
	}
	return ls, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
