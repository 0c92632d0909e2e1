package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/merge2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Rows:    4,
			Columns: 4,
		},
		Spawn: SpawnConfig{
			Value:        2,
			InitialTiles: 2,
		},
		History: HistoryConfig{
			Capacity:   5,
			UndoBudget: 5,
		},
		Presentation: PresentationConfig{
			GameOverDelay: time.Second,
			Theme:         "classic",
		},
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			SQLitePath:  "~/.merge2048/scores.db",
			RedisURL:    "redis://localhost:6379/0",
			RedisPrefix: "merge2048",
		},
		Server: ServerConfig{
			Address:     ":23234",
			HostKey:     "~/.merge2048/ssh_host_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
