package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/merge2048/internal/platform/tui"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
	flagClear       bool
)

var modePattern = regexp.MustCompile(`^\d+x\d+$`)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode...]",
	Short: "Show high scores for a board size",
	Long: `Display the top scores for a board size such as 4x4.
Without arguments the configured board size is shown.

Examples:
  merge2048 scores
  merge2048 scores 5x5
  merge2048 scores 4x4 5x5 --interactive
  merge2048 scores 3x3 --clear`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultTopLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse scores in a table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the mode")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	modes := args
	if len(modes) == 0 {
		modes = []string{storage.Mode(cfg.Board.Rows, cfg.Board.Columns)}
	}
	for _, mode := range modes {
		if !modePattern.MatchString(mode) {
			return fmt.Errorf("invalid mode %q, expected ROWSxCOLS such as 4x4", mode)
		}
	}

	logger, err := newLogger(os.Stderr, "merge2048")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store := openStore(ctx, cfg, logger)
	if store == nil {
		return fmt.Errorf("cannot open %s score store", cfg.Storage.Backend)
	}
	defer store.Close()

	switch {
	case flagClear:
		for _, mode := range modes {
			if err := store.ClearScores(ctx, mode); err != nil {
				return err
			}
			fmt.Printf("Cleared scores for %s\n", mode)
		}

	case flagInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, modes, width, height); err != nil {
			return err
		}

	default:
		for i, mode := range modes {
			if i > 0 {
				fmt.Println()
			}
			if err := printScores(ctx, store, mode, flagLimit); err != nil {
				return err
			}
		}
	}
	return nil
}

// printScores writes the leaderboard for one mode to stdout.
func printScores(ctx context.Context, store storage.ScoreStore, mode string, limit int) error {
	scores, err := store.TopScores(ctx, mode, limit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", mode)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'merge2048 play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %s\n", "Rank", "Score", "Tile", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %s\n", "----", "-----", "----", "------", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-6d  %-12s  %s\n", i+1, entry.Score, entry.MaxTile, entry.Player, dateStr)
	}

	fmt.Println()
	if high, err := store.HighScore(ctx, mode); err == nil {
		fmt.Printf("Best: %d\n", high)
	}
	if stats, err := store.Stats(ctx, mode); err == nil && stats.GamesCount > 0 {
		fmt.Printf("Games: %d  Average: %.0f\n", stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
