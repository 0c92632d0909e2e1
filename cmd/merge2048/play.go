package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/platform/tui"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var (
	flagRows     int
	flagCols     int
	flagTheme    string
	flagNoSplash bool
)

// runGame runs the interactive game; replaced in tests.
var runGame = tui.Run

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game in this terminal.

Controls:
  Arrows/WASD/HJKL  - Slide tiles
  U/Z               - Undo (5 per game)
  R                 - New game
  ?                 - Toggle help
  Q/Ctrl+C          - Quit

The game logs to ~/.merge2048/merge2048.log while it owns the terminal.

Examples:
  merge2048 play
  merge2048 play --rows 3 --cols 5
  merge2048 play --seed 42 --store memory
  merge2048 play --theme mono`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (overrides config)")
	playCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns (overrides config)")
	playCmd.Flags().StringVar(&flagTheme, "theme", "", "Tile theme: "+joinNames(tui.ThemeNames()))
	playCmd.Flags().BoolVar(&flagNoSplash, "no-splash", false, "Skip the start screen")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(&cfg, overrides{rows: flagRows, cols: flagCols, theme: flagTheme})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "merge2048")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store := openStore(ctx, cfg, logger)
	if store != nil {
		defer store.Close()
	}

	theme, ok := tui.ThemeByName(cfg.Presentation.Theme)
	if !ok {
		logger.Warn("unknown theme, using classic", "theme", cfg.Presentation.Theme)
	}

	mode := storage.Mode(cfg.Board.Rows, cfg.Board.Columns)
	best := storage.NewBestScore(store, mode, logger)

	session, err := game.NewSession(cfg.SessionOptions(newRandom(flagSeed), best))
	if err != nil {
		return err
	}

	// Get terminal size early so the first frame is centered
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	logger.Info("starting game", "mode", mode, "backend", cfg.Storage.Backend, "width", width, "height", height)

	return runGame(tui.Options{
		Session:       session,
		Store:         store,
		Mode:          mode,
		Player:        currentUser(),
		Theme:         theme,
		GameOverDelay: cfg.Presentation.GameOverDelay,
		SkipSplash:    flagNoSplash,
		Logger:        logger,
	})
}

// openLogFile opens ~/.merge2048/merge2048.log for appending.
func openLogFile() (*os.File, error) {
	path := config.UserPath("merge2048.log")
	if path == "" {
		path = filepath.Join(os.TempDir(), "merge2048.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func currentUser() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(env); u != "" {
			return u
		}
	}
	return "player"
}
