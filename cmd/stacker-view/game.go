package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

var pieceColors = [...]color.RGBA{
	game.I: {0, 240, 240, 255},
	game.O: {240, 240, 0, 255},
	game.T: {160, 0, 240, 255},
	game.S: {0, 240, 0, 255},
	game.Z: {240, 0, 0, 255},
	game.J: {0, 0, 240, 255},
	game.L: {240, 160, 0, 255},
}

var (
	backgroundColor = color.RGBA{20, 20, 28, 255}
	wellColor       = color.RGBA{36, 36, 48, 255}
	gridColor       = color.RGBA{48, 48, 62, 255}
	garbageColor    = color.RGBA{128, 128, 128, 255}
)

type Game struct {
	Engine    *game.Engine
	Scheduler *runner.Scheduler
	Player    *runner.PlayerSystem
	Width     int
	Height    int
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Engine.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.Engine.State().IsPaused {
			g.Engine.Resume()
		} else {
			g.Engine.Pause()
		}
	}

	g.Scheduler.Once(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	state := g.Engine.State()

	ox, oy := float32(ScreenMargin), float32(ScreenMargin)
	vector.DrawFilledRect(screen, ox, oy, float32(g.Width*CellSize), float32(g.Height*CellSize), wellColor, false)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c, _ := state.Board.Get(x, y)
			if c.Filled() {
				drawCell(screen, ox, oy, x, y, cellColor(c))
			} else {
				vector.StrokeRect(screen, ox+float32(x*CellSize), oy+float32(y*CellSize), CellSize, CellSize, 1, gridColor, false)
			}
		}
	}

	if ghost, ok := state.Ghost(); ok {
		faded := pieceColors[ghost.Type]
		faded.A = 70
		drawPiece(screen, ox, oy, ghost, faded)
	}
	if state.ActivePiece != nil {
		drawPiece(screen, ox, oy, *state.ActivePiece, pieceColors[state.ActivePiece.Type])
	}

	panelX := ox + float32(g.Width*CellSize) + CellSize
	ebitenutil.DebugPrintAt(screen, "NEXT", int(panelX), ScreenMargin)
	for i, next := range state.NextPieces {
		drawPreview(screen, panelX, oy+float32(16+i*3*CellSize/2), next)
	}

	holdY := oy + float32(len(state.NextPieces)*3*CellSize/2) + 2*CellSize
	ebitenutil.DebugPrintAt(screen, "HOLD", int(panelX), int(holdY))
	if state.HeldPiece != nil {
		drawPreview(screen, panelX, holdY+16, *state.HeldPiece)
	}

	ebitenutil.DebugPrintAt(screen, g.hud(state), int(panelX), int(holdY)+3*CellSize)
}

func (g *Game) hud(state *game.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", strings.ToUpper(state.Rules.Name))
	fmt.Fprintf(&b, "SCORE  %d\nLINES  %d\nLEVEL  %d\n", state.Score.Points, state.Score.Lines, state.Score.Level)
	fmt.Fprintf(&b, "TSPIN  %d\nTETRIS %d\n", state.Score.TSpins, state.Score.TetrisCount)
	if state.Score.Combo > 1 {
		fmt.Fprintf(&b, "COMBO  x%d\n", state.Score.Combo)
	}
	fmt.Fprintf(&b, "TIME   %s\n", state.Elapsed.Truncate(time.Second))
	if g.Player != nil {
		fmt.Fprintf(&b, "\nAI %s\n", g.Player.Player.Name())
	}
	switch {
	case state.GameOver && state.Won:
		b.WriteString("\nCLEAR!  R to restart")
	case state.GameOver:
		b.WriteString("\nGAME OVER  R to restart")
	case state.IsPaused:
		b.WriteString("\nPAUSED")
	}
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width*CellSize + SidePanel + 2*ScreenMargin, g.Height*CellSize + 2*ScreenMargin
}

func cellColor(c game.Cell) color.RGBA {
	t := int(c) - 1
	if t >= 0 && t < len(pieceColors) {
		return pieceColors[t]
	}
	return garbageColor
}

func drawCell(screen *ebiten.Image, ox, oy float32, x, y int, clr color.RGBA) {
	vector.DrawFilledRect(screen, ox+float32(x*CellSize)+1, oy+float32(y*CellSize)+1, CellSize-2, CellSize-2, clr, false)
}

func drawPiece(screen *ebiten.Image, ox, oy float32, p game.Piece, clr color.RGBA) {
	for _, pt := range p.Cells() {
		if pt.Y < 0 {
			continue
		}
		drawCell(screen, ox, oy, pt.X, pt.Y, clr)
	}
}

func drawPreview(screen *ebiten.Image, x, y float32, t game.Piece) {
	shape := game.SpawnShape(t.Type)
	preview := game.Piece{Type: t.Type, Shape: shape}
	half := float32(CellSize) / 2
	for _, pt := range preview.Cells() {
		vector.DrawFilledRect(screen, x+float32(pt.X)*half, y+float32(pt.Y)*half, half-1, half-1, pieceColors[t.Type], false)
	}
}
