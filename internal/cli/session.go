package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Current points at the game the step-by-step commands act on.
type Current struct {
	GameID     string    `json:"game_id"`
	APIBaseURL string    `json:"api_base_url"`
	StartedAt  time.Time `json:"started_at"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".seedround")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func currentPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "game.json"), nil
}

func SaveCurrent(c Current) error {
	path, err := currentPath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

func LoadCurrent() (Current, error) {
	path, err := currentPath()
	if err != nil {
		return Current{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Current{}, fmt.Errorf("no game in progress; run `sr new`")
		}
		return Current{}, err
	}
	var c Current
	if err := json.Unmarshal(body, &c); err != nil {
		return Current{}, err
	}
	if strings.TrimSpace(c.GameID) == "" {
		return Current{}, fmt.Errorf("no game id found in %s", path)
	}
	return c, nil
}

func ClearCurrent() error {
	path, err := currentPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
