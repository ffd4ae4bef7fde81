package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SavedGame is the game the CLI currently plays, persisted under the
// user's home directory so commands can omit the game id.
type SavedGame struct {
	GameID     string `json:"game_id"`
	Token      string `json:"token"`
	PlayerName string `json:"player_name"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".yolo")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func gamePath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "game.json"), nil
}

func SaveGame(g SavedGame) error {
	path, err := gamePath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return err
	}
	return nil
}

func LoadGame() (SavedGame, error) {
	path, err := gamePath()
	if err != nil {
		return SavedGame{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return SavedGame{}, err
	}
	var g SavedGame
	if err := json.Unmarshal(body, &g); err != nil {
		return SavedGame{}, err
	}
	if strings.TrimSpace(g.Token) == "" {
		return SavedGame{}, fmt.Errorf("no saved game found, start one with: yolo new")
	}
	return g, nil
}

func ClearGame() error {
	path, err := gamePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
