package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/plus3/stacker/game"
)

const cellText = "  "

var (
	pieceColors  = []lipgloss.Color{"51", "226", "93", "46", "196", "21", "208"}
	garbageColor = lipgloss.Color("244")
	borderColor  = lipgloss.Color("15")
	textColor    = lipgloss.Color("250")
	accentColor  = lipgloss.Color("226")
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accentColor).Bold(true)
}

func textStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(textColor)
}

func alertStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
}

func cellColor(c game.Cell) lipgloss.Color {
	t := int(c) - 1
	if t >= 0 && t < len(pieceColors) {
		return pieceColors[t]
	}
	return garbageColor
}

func render(state *game.State, feed *eventFeed, player string) string {
	board := renderBoard(state)
	info := renderInfo(state, feed, player)
	return lipgloss.JoinHorizontal(lipgloss.Top, board, info)
}

func renderBoard(state *game.State) string {
	border := lipgloss.NewStyle().Foreground(borderColor)

	cells := make([][]lipgloss.Color, state.Height)
	ghost := make([][]bool, state.Height)
	for y := range cells {
		cells[y] = make([]lipgloss.Color, state.Width)
		ghost[y] = make([]bool, state.Width)
		for x := range cells[y] {
			if c, _ := state.Board.Get(x, y); c.Filled() {
				cells[y][x] = cellColor(c)
			}
		}
	}
	if landed, ok := state.Ghost(); ok {
		for _, p := range landed.Cells() {
			if p.Y >= 0 && p.Y < state.Height {
				ghost[p.Y][p.X] = true
			}
		}
	}
	if state.ActivePiece != nil {
		for _, p := range state.ActivePiece.Cells() {
			if p.Y >= 0 && p.Y < state.Height {
				cells[p.Y][p.X] = pieceColors[state.ActivePiece.Type]
			}
		}
	}

	var b strings.Builder
	b.WriteString(border.Render("┌" + strings.Repeat("──", state.Width) + "┐"))
	b.WriteString("\n")
	for y := range cells {
		b.WriteString(border.Render("│"))
		for x, color := range cells[y] {
			switch {
			case color != "":
				b.WriteString(lipgloss.NewStyle().Background(color).Render(cellText))
			case ghost[y][x]:
				b.WriteString(lipgloss.NewStyle().Foreground(pieceColors[state.ActivePiece.Type]).Faint(true).Render("░░"))
			default:
				b.WriteString(cellText)
			}
		}
		b.WriteString(border.Render("│"))
		b.WriteString("\n")
	}
	b.WriteString(border.Render("└" + strings.Repeat("──", state.Width) + "┘"))
	return b.String()
}

func renderMiniPiece(t game.PieceType) string {
	p := game.Piece{Type: t, Shape: game.SpawnShape(t)}
	grid := [4][4]bool{}
	for _, c := range p.Cells() {
		if c.X >= 0 && c.X < 4 && c.Y >= 0 && c.Y < 4 {
			grid[c.Y][c.X] = true
		}
	}
	var b strings.Builder
	for y := range grid {
		empty := true
		var row strings.Builder
		for x := range grid[y] {
			if grid[y][x] {
				empty = false
				row.WriteString(lipgloss.NewStyle().Background(pieceColors[t]).Render(cellText))
			} else {
				row.WriteString(cellText)
			}
		}
		if !empty {
			b.WriteString(row.String())
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderInfo(state *game.State, feed *eventFeed, player string) string {
	pad := lipgloss.NewStyle().PaddingLeft(2)
	lines := []string{
		titleStyle().Render(strings.ToUpper(state.Rules.Name)),
		"",
		textStyle().Render(fmt.Sprintf("Score  %d", state.Score.Points)),
		textStyle().Render(fmt.Sprintf("Lines  %d", state.Score.Lines)),
		textStyle().Render(fmt.Sprintf("Level  %d", state.Score.Level)),
		textStyle().Render(fmt.Sprintf("Time   %s", state.Elapsed.Truncate(time.Second))),
	}
	if state.Rules.GoalLines > 0 {
		lines = append(lines, textStyle().Render(fmt.Sprintf("Goal   %d", state.Rules.GoalLines)))
	}
	if state.Score.Combo > 1 {
		lines = append(lines, titleStyle().Render(fmt.Sprintf("Combo  x%d", state.Score.Combo)))
	}
	if feed.last != "" {
		lines = append(lines, "", titleStyle().Render(feed.last), textStyle().Render(fmt.Sprintf("+%d", feed.delta)))
	}

	lines = append(lines, "", titleStyle().Render("Next"))
	for _, p := range state.NextPieces {
		lines = append(lines, renderMiniPiece(p.Type))
	}
	lines = append(lines, "", titleStyle().Render("Hold"))
	if state.HeldPiece != nil {
		lines = append(lines, renderMiniPiece(state.HeldPiece.Type))
	}

	if player != "" {
		lines = append(lines, "", textStyle().Render("AI "+player))
	}
	switch {
	case state.GameOver && state.Won:
		lines = append(lines, "", titleStyle().Render("CLEAR!"), textStyle().Render("r restart  q quit"))
	case state.GameOver:
		lines = append(lines, "", alertStyle().Render("GAME OVER"), textStyle().Render("r restart  q quit"))
	case state.IsPaused:
		lines = append(lines, "", alertStyle().Render("PAUSED"))
	}
	return pad.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
