// Package tui provides the Bubble Tea front end for merge2048: the game
// screen, the scoreboard and the SSH server that serves both.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// gameOverMsg reveals the game-over overlay. It is ignored when the game
// changed since the timer was started.
type gameOverMsg struct {
	generation int
}

// gameOverCmd returns a command that sends gameOverMsg after delay.
func gameOverCmd(delay time.Duration, generation int) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return gameOverMsg{generation: generation} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return gameOverMsg{generation: generation}
	})
}

// noticeTimeout is how long a notice stays on screen.
const noticeTimeout = 3 * time.Second

// clearNoticeMsg clears the notice it was started for.
type clearNoticeMsg struct {
	id int
}

func clearNoticeCmd(id int) tea.Cmd {
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}
