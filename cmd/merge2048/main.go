// merge2048 is the 2048 sliding-tile game for the terminal.
//
// Usage:
//
//	merge2048 play           - Play a game locally
//	merge2048 serve          - Start SSH server for remote play
//	merge2048 scores [mode]  - Show high scores for a board size
//	merge2048 backends       - List score storage backends
//
// Global flags:
//
//	--config <path>    - Config file (default: search ~/.merge2048, ./configs)
//	--seed <value>     - Set RNG seed for reproducible tile placement
//	--store <name>     - Score backend: sqlite, redis or memory
//	--db <path>        - SQLite database path
//	--redis <url>      - Redis URL for the shared leaderboard
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/registry"
	"github.com/vovakirdan/merge2048/internal/storage"

	// Import backends to register them
	_ "github.com/vovakirdan/merge2048/internal/storage/memory"
	_ "github.com/vovakirdan/merge2048/internal/storage/redis"
	_ "github.com/vovakirdan/merge2048/internal/storage/sqlite"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagStore    string
	flagDBPath   string
	flagRedisURL string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "merge2048",
	Short: "2048 in your terminal",
	Long: `merge2048 is the 2048 sliding-tile puzzle for the terminal.

Slide the tiles, merge equal neighbors and reach 2048.

Available commands:
  play      - Play locally
  serve     - Start SSH server for remote play
  scores    - View high scores
  backends  - List score storage backends

Examples:
  merge2048 play
  merge2048 play --rows 5 --cols 5
  merge2048 serve --ssh :2222 --store redis
  merge2048 scores 4x4`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Score backend: sqlite, redis or memory")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (sqlite backend)")
	rootCmd.PersistentFlags().StringVar(&flagRedisURL, "redis", "", "Redis URL (redis backend)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(backendsCmd)
}

// loadConfig loads the config file, then applies MERGE2048_* environment
// variables (including those from ./.env) and finally the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.LoadDotEnv(); err != nil {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}
	config.ApplyEnv(&cfg)
	applyOverrides(&cfg, overrides{
		store: flagStore,
		db:    flagDBPath,
		redis: flagRedisURL,
	})
	return cfg, cfg.Validate()
}

type overrides struct {
	store string
	db    string
	redis string
	rows  int
	cols  int
	theme string
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.store != "" {
		cfg.Storage.Backend = strings.ToLower(o.store)
	}
	if o.db != "" {
		cfg.Storage.SQLitePath = o.db
	}
	if o.redis != "" {
		cfg.Storage.RedisURL = o.redis
	}
	if o.rows > 0 {
		cfg.Board.Rows = o.rows
	}
	if o.cols > 0 {
		cfg.Board.Columns = o.cols
	}
	if o.theme != "" {
		cfg.Presentation.Theme = o.theme
	}
}

// newLogger creates the process logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openStore opens the configured backend. On failure the error is logged and
// a nil store is returned so play can continue without persistence.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) storage.ScoreStore {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := registry.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Warn("could not open score store, scores will not be saved", "backend", cfg.Storage.Backend, "error", err)
		return nil
	}
	logger.Debug("score store opened", "backend", cfg.Storage.Backend)
	return store
}

// newRandom returns the tile placement source for --seed.
func newRandom(seed int64) game.Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
