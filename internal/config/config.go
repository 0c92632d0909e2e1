// Package config provides YAML-based configuration loading for merge2048.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/merge2048/internal/game"
)

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config contains all configuration for a merge2048 installation.
type Config struct {
	Board        BoardConfig        `yaml:"board"`
	Spawn        SpawnConfig        `yaml:"spawn"`
	History      HistoryConfig      `yaml:"history"`
	Presentation PresentationConfig `yaml:"presentation"`
	Storage      StorageConfig      `yaml:"storage"`
	Server       ServerConfig       `yaml:"server"`
}

// BoardConfig defines the grid dimensions.
type BoardConfig struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// SpawnConfig defines tile spawning.
type SpawnConfig struct {
	Value        int `yaml:"value"`
	InitialTiles int `yaml:"initial_tiles"`
}

// HistoryConfig defines the undo buffer.
type HistoryConfig struct {
	Capacity   int `yaml:"capacity"`
	UndoBudget int `yaml:"undo_budget"` // 0 disables undo
}

// PresentationConfig defines UI behavior that the engine doesn't care about.
type PresentationConfig struct {
	GameOverDelay time.Duration `yaml:"game_over_delay"`
	Theme         string        `yaml:"theme"`
}

// StorageConfig selects and configures the score backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// ServerConfig configures the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate checks the configuration for values the game cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Board.Rows < 2 || c.Board.Columns < 2 {
		errs = append(errs, fmt.Errorf("board must be at least 2x2, got %dx%d", c.Board.Rows, c.Board.Columns))
	}
	if c.Spawn.Value < game.BaseTileValue || !game.IsTileValue(c.Spawn.Value) {
		errs = append(errs, fmt.Errorf("spawn value %d is not a power of two", c.Spawn.Value))
	}
	if c.Spawn.InitialTiles < 0 || c.Spawn.InitialTiles > c.Board.Rows*c.Board.Columns {
		errs = append(errs, fmt.Errorf("initial_tiles %d does not fit the board", c.Spawn.InitialTiles))
	}
	if c.History.Capacity < 1 {
		errs = append(errs, fmt.Errorf("history capacity must be positive, got %d", c.History.Capacity))
	}
	if c.History.UndoBudget < 0 {
		errs = append(errs, fmt.Errorf("undo_budget must not be negative, got %d", c.History.UndoBudget))
	}
	if c.Presentation.GameOverDelay < 0 {
		errs = append(errs, fmt.Errorf("game_over_delay must not be negative, got %s", c.Presentation.GameOverDelay))
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SessionOptions translates the config into engine options.
// A zero undo budget disables undo.
func (c Config) SessionOptions(rng game.Random, best game.HighScoreStore) game.Options {
	budget := c.History.UndoBudget
	if budget == 0 {
		budget = -1
	}
	initial := c.Spawn.InitialTiles
	if initial == 0 {
		initial = -1
	}
	return game.Options{
		Rows:            c.Board.Rows,
		Cols:            c.Board.Columns,
		SpawnValue:      c.Spawn.Value,
		InitialTiles:    initial,
		HistoryCapacity: c.History.Capacity,
		UndoBudget:      budget,
		Random:          rng,
		HighScore:       best,
	}
}
