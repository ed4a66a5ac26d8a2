package console

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/tictactoe"
)

// Render - writes the board, the player cards, the status line and the overlay.
// Empty cells show their index, highlighted cells are wrapped in brackets.
func (that *Host) Render(w io.Writer) error {
	view := that.View()

	var b strings.Builder

	for row := range 3 {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}
		cells := make([]string, 0, 3)
		for col := range 3 {
			cells = append(cells, renderCell(view, row*3+col))
		}
		b.WriteString(strings.Join(cells, "|"))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%s  vs  %s\n",
		renderCard(view.PlayerX, tictactoe.X, view.ActiveMark),
		renderCard(view.PlayerO, tictactoe.O, view.ActiveMark))
	fmt.Fprintf(&b, "%s%s\n", statusPrefix(view.Status.Kind), view.Status.Text)

	if view.Overlay.Visible {
		fmt.Fprintf(&b, "\n*** %s ***\n(type 'close' to play again)\n", view.Overlay.Text)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("could not render board: %w", err)
	}
	return nil
}

func renderCell(view View, cell int) string {
	content := string(view.Cells[cell])
	if content == "" {
		content = strconv.Itoa(cell)
	}

	if slices.Contains(view.Highlighted, cell) {
		return "[" + content + "]"
	}
	return " " + content + " "
}

func renderCard(name string, mark, active tictactoe.Mark) string {
	if mark == active {
		return fmt.Sprintf("> %s (%s) <", name, mark)
	}
	return fmt.Sprintf("  %s (%s)  ", name, mark)
}

func statusPrefix(kind StatusKind) string {
	switch kind {
	case StatusSaved:
		return "[ok] "
	case StatusFailed:
		return "[!!] "
	default:
		return ""
	}
}
