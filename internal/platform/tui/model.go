package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/storage"
)

// undoLimitNotice is shown when undo is refused.
const undoLimitNotice = "Undo limit reached!"

// saveTimeout bounds the final score write.
const saveTimeout = 5 * time.Second

// Options configures a game Model.
type Options struct {
	Session *game.Session

	// Store receives the final score of each game. May be nil.
	Store  storage.ScoreStore
	Mode   string
	Player string

	Theme         Theme
	GameOverDelay time.Duration
	SkipSplash    bool
	Logger        *log.Logger
}

// lastUpdate is shared between the model copies Bubble Tea passes around
// and the session observer that fills it.
type lastUpdate struct {
	update *game.Update
}

// scoreSavedMsg reports the result of recording a final score.
type scoreSavedMsg struct {
	id    int64
	score int
	err   error
}

// Model is the Bubble Tea model for one player's game.
type Model struct {
	session *game.Session
	store   storage.ScoreStore
	mode    string
	player  string
	logger  *log.Logger

	keys  KeyMap
	help  help.Model
	theme Theme
	last  *lastUpdate

	gameOverDelay time.Duration
	generation    int // bumped whenever a pending game-over timer goes stale
	showGameOver  bool
	scoreSaved    bool

	splash   bool
	notice   string
	noticeID int

	width    int
	height   int
	quitting bool
}

// NewModel creates a game model around an existing session.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	theme := opts.Theme
	if theme.tiles == nil {
		theme, _ = ThemeByName("classic")
	}

	last := &lastUpdate{}
	opts.Session.Subscribe(game.ObserverFunc(func(u game.Update) {
		last.update = &u
	}))

	return Model{
		session:       opts.Session,
		store:         opts.Store,
		mode:          opts.Mode,
		player:        opts.Player,
		logger:        logger,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		theme:         theme,
		last:          last,
		gameOverDelay: opts.GameOverDelay,
		splash:        !opts.SkipSplash,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case gameOverMsg:
		if msg.generation == m.generation && m.session.IsGameOver() {
			m.showGameOver = true
		}
		return m, nil

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case scoreSavedMsg:
		if msg.err != nil {
			m.logger.Warn("could not save score", "player", m.player, "score", msg.score, "error", msg.err)
		} else {
			m.logger.Info("score saved", "player", m.player, "mode", m.mode, "score", msg.score, "id", msg.id)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.splash {
		m.splash = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.session.Restart()
		m.generation++
		m.showGameOver = false
		m.scoreSaved = false
		m.notice = ""
		m.logger.Debug("new game", "player", m.player)
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		if _, err := m.session.Undo(); err != nil {
			return m.setNotice(undoLimitNotice)
		}
		m.generation++
		m.showGameOver = false
		m.notice = ""
		return m, nil
	}

	dir, ok := m.keys.Direction(msg)
	if !ok || m.showGameOver {
		return m, nil
	}
	return m.move(dir)
}

// move applies one slide and schedules the game-over overlay when the
// game just ended.
func (m Model) move(dir game.Direction) (tea.Model, tea.Cmd) {
	wasOver := m.session.IsGameOver()

	out, err := m.session.Move(dir)
	if err != nil {
		m.logger.Error("move failed", "direction", dir, "error", err)
		return m.setNotice(err.Error())
	}
	if !out.GameOver || wasOver {
		return m, nil
	}

	m.logger.Debug("game over", "player", m.player, "score", m.session.Score())

	cmds := []tea.Cmd{gameOverCmd(m.gameOverDelay, m.generation)}
	if !m.scoreSaved {
		m.scoreSaved = true
		cmds = append(cmds, m.saveScoreCmd())
	}
	return m, tea.Batch(cmds...)
}

// saveScoreCmd records the final score off the update loop.
func (m Model) saveScoreCmd() tea.Cmd {
	if m.store == nil || m.session.Score() == 0 {
		return nil
	}

	snap := m.session.Snapshot()
	entry := storage.ScoreEntry{
		Mode:    m.mode,
		Player:  m.player,
		Score:   snap.Score,
		MaxTile: snap.MaxTile,
	}
	store := m.store

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		id, err := store.SaveScore(ctx, entry)
		return scoreSavedMsg{id: id, score: entry.Score, err: err}
	}
}

func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	return m, clearNoticeCmd(m.noticeID)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	if m.splash {
		content = m.splashView()
	} else {
		content = m.gameView()
	}

	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func (m Model) splashView() string {
	lines := []string{
		titleStyle.Render("2 0 4 8"),
		"",
		"Join the tiles, get to " + m.theme.Accent.Render("2048") + "!",
		"",
		labelStyle.Render("arrows/wasd/hjkl to slide · u to undo · r for a new game"),
		"",
		helpStyle.Render("press any key to start"),
	}
	return boxStyle.Padding(1, 4).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m Model) gameView() string {
	snap := m.session.Snapshot()

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("2048"),
		"  ",
		scoreBox("SCORE", snap.Score),
		" ",
		scoreBox("BEST", snap.HighScore),
		" ",
		scoreBox("UNDO", snap.UndosRemaining),
	)

	board := renderBoard(snap.Grid, m.theme, highlightsFrom(m.last.update))
	if m.showGameOver {
		board = lipgloss.Place(
			lipgloss.Width(board), lipgloss.Height(board),
			lipgloss.Center, lipgloss.Center,
			m.gameOverView(snap),
		)
	}

	notice := " "
	if m.notice != "" {
		notice = noticeStyle.Render(m.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		header,
		"",
		board,
		notice,
		helpStyle.Render(m.help.View(m.keys)),
	)
}

func (m Model) gameOverView(snap game.Snapshot) string {
	lines := []string{
		titleStyle.Render("Game over!"),
		"",
		fmt.Sprintf("Final score: %s", m.theme.Accent.Render(fmt.Sprint(snap.Score))),
		fmt.Sprintf("Best tile: %d", snap.MaxTile),
		"",
		labelStyle.Render(strings.Join([]string{
			m.keys.Restart.Help().Key + " " + m.keys.Restart.Help().Desc,
			m.keys.Undo.Help().Key + " " + m.keys.Undo.Help().Desc,
		}, " · ")),
	}
	return boxStyle.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func scoreBox(label string, value int) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Render(label),
		fmt.Sprint(value),
	))
}

// GameOverShown reports whether the game-over overlay is visible.
func (m Model) GameOverShown() bool { return m.showGameOver }

// Notice returns the current notice line.
func (m Model) Notice() string { return m.notice }

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
