package tui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/merge2048/internal/game"
)

const (
	cellWidth  = 7 // minimum tile width in columns
	cellHeight = 3
	cellGap    = 1

	// MaxStyledTile is the largest value with its own style. Larger tiles
	// share the overflow style.
	MaxStyledTile = 4096
)

// Theme maps tile values to lipgloss styles.
type Theme struct {
	Name     string
	Empty    lipgloss.Style
	Overflow lipgloss.Style
	Frame    lipgloss.Style
	Accent   lipgloss.Style
	tiles    map[int]lipgloss.Style
}

// Tile returns the style for a tile value.
func (t Theme) Tile(v int) lipgloss.Style {
	if v == 0 {
		return t.Empty
	}
	if v > MaxStyledTile {
		return t.Overflow
	}
	if s, ok := t.tiles[v]; ok {
		return s
	}
	return t.Overflow
}

func tile(bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Bold(true)
}

var themes = map[string]Theme{
	"classic": {
		Name:     "classic",
		Empty:    lipgloss.NewStyle().Background(lipgloss.Color("#cdc1b4")),
		Overflow: tile("#3c3a32", "#f9f6f2"),
		Frame:    lipgloss.NewStyle().Background(lipgloss.Color("#bbada0")).Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#edc22e")).Bold(true),
		tiles: map[int]lipgloss.Style{
			2:    tile("#eee4da", "#776e65"),
			4:    tile("#ede0c8", "#776e65"),
			8:    tile("#f2b179", "#f9f6f2"),
			16:   tile("#f59563", "#f9f6f2"),
			32:   tile("#f67c5f", "#f9f6f2"),
			64:   tile("#f65e3b", "#f9f6f2"),
			128:  tile("#edcf72", "#f9f6f2"),
			256:  tile("#edcc61", "#f9f6f2"),
			512:  tile("#edc850", "#f9f6f2"),
			1024: tile("#edc53f", "#f9f6f2"),
			2048: tile("#edc22e", "#f9f6f2"),
			4096: tile("#b784ab", "#f9f6f2"),
		},
	},
	"mono": {
		Name:     "mono",
		Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Overflow: lipgloss.NewStyle().Bold(true).Reverse(true),
		Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Accent:   lipgloss.NewStyle().Bold(true),
		tiles: map[int]lipgloss.Style{
			2:    lipgloss.NewStyle(),
			4:    lipgloss.NewStyle(),
			8:    lipgloss.NewStyle().Bold(true),
			16:   lipgloss.NewStyle().Bold(true),
			32:   lipgloss.NewStyle().Bold(true),
			64:   lipgloss.NewStyle().Bold(true),
			128:  lipgloss.NewStyle().Bold(true).Underline(true),
			256:  lipgloss.NewStyle().Bold(true).Underline(true),
			512:  lipgloss.NewStyle().Bold(true).Underline(true),
			1024: lipgloss.NewStyle().Reverse(true),
			2048: lipgloss.NewStyle().Reverse(true),
			4096: lipgloss.NewStyle().Reverse(true),
		},
	},
}

// ThemeByName looks up a theme. Unknown names fall back to classic.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		return themes["classic"], false
	}
	return t, true
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// highlights marks tiles touched by the last move.
type highlights struct {
	merged  map[game.Cell]bool
	spawned *game.Cell
}

func highlightsFrom(u *game.Update) highlights {
	h := highlights{merged: make(map[game.Cell]bool)}
	if u == nil || u.Kind != game.UpdateMove {
		return h
	}
	for _, m := range u.Merges {
		h.merged[game.Cell{Row: m.Row, Col: m.Col}] = true
	}
	h.spawned = u.Spawned
	return h
}

// RenderBoard draws the grid with the given theme.
func RenderBoard(g game.Grid, theme Theme) string {
	return renderBoard(g, theme, highlights{})
}

func renderBoard(g game.Grid, theme Theme, hl highlights) string {
	width := cellWidth
	for _, row := range g {
		for _, v := range row {
			width = max(width, len(strconv.Itoa(v))+2)
		}
	}

	rows := make([]string, 0, len(g)*2)
	for r, row := range g {
		cells := make([]string, 0, len(row)*2)
		for c, v := range row {
			if c > 0 {
				cells = append(cells, strings.Repeat(" ", cellGap))
			}
			cells = append(cells, renderTile(v, width, theme, hl, game.Cell{Row: r, Col: c}))
		}
		if r > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return theme.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderTile(v, width int, theme Theme, hl highlights, cell game.Cell) string {
	style := theme.Tile(v).
		Width(width).
		Height(cellHeight).
		Align(lipgloss.Center, lipgloss.Center)

	switch {
	case hl.merged[cell]:
		style = style.Underline(true)
	case hl.spawned != nil && *hl.spawned == cell:
		style = style.Italic(true)
	}

	text := ""
	if v != 0 {
		text = strconv.Itoa(v)
	}
	return style.Render(text)
}
