package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

type tickMsg struct {
	at time.Time
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg{at: t} })
}

// eventFeed remembers the latest notable engine event for the info panel.
type eventFeed struct {
	last  string
	delta int
}

func (f *eventFeed) OnEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventLinesCleared:
		names := [...]string{"", "SINGLE", "DOUBLE", "TRIPLE", "TETRIS"}
		if ev.Lines < len(names) {
			f.last = names[ev.Lines]
		}
		f.delta = ev.Points
	case game.EventTSpin:
		f.last = fmt.Sprintf("T-SPIN x%d", ev.Lines)
		f.delta = ev.Points
	case game.EventBackToBack:
		f.last = "BACK-TO-BACK " + f.last
	case game.EventGameOver:
		DebugLogf("game over won=%v points=%d lines=%d", ev.Won, ev.Score.Points, ev.Score.Lines)
	}
}

type Option func(*Model)

// WithPlayer hands control to an AI player; keyboard moves are ignored.
func WithPlayer(p ai.Player) Option {
	return func(m *Model) {
		m.player = &runner.PlayerSystem{Player: p}
	}
}

type Model struct {
	engine    *game.Engine
	scheduler *runner.Scheduler
	player    *runner.PlayerSystem
	interval  time.Duration
	lastTick  time.Time
	feed      *eventFeed
	width     int
	height    int
}

// NewModel starts a game on engine under rules.
func NewModel(engine *game.Engine, rules game.Rules, interval time.Duration, opts ...Option) Model {
	m := Model{
		engine:    engine,
		scheduler: runner.NewScheduler(engine),
		interval:  interval,
		feed:      &eventFeed{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	engine.Subscribe(m.feed)
	if m.player != nil {
		m.scheduler.Register(m.player)
	}
	m.scheduler.Register(runner.TickSystem{})
	engine.Initialize(rules)
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		dt := m.interval
		if !m.lastTick.IsZero() {
			dt = msg.at.Sub(m.lastTick)
		}
		m.lastTick = msg.at
		m.scheduler.Once(dt)
		return m, tickCmd(m.interval)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

var keyCommands = map[string]game.Command{
	"left":  game.CmdLeft,
	"h":     game.CmdLeft,
	"right": game.CmdRight,
	"l":     game.CmdRight,
	"down":  game.CmdDown,
	"j":     game.CmdDown,
	"up":    game.CmdRotate,
	"x":     game.CmdRotate,
	"k":     game.CmdRotate,
	"z":     game.CmdRotateCCW,
	"c":     game.CmdHold,
	" ":     game.CmdHardDrop,
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "r":
		DebugLogf("restart")
		m.feed.last, m.feed.delta = "", 0
		m.engine.Restart()
		return nil
	case "p":
		if m.engine.State().IsPaused {
			m.engine.Resume()
		} else {
			m.engine.Pause()
		}
		return nil
	}
	if m.player != nil {
		return nil
	}
	if cmd, ok := keyCommands[key]; ok {
		m.engine.Commands().Push(cmd)
	}
	return nil
}

func (m Model) View() string {
	state := m.engine.State()
	return render(state, m.feed, m.playerName())
}

func (m Model) playerName() string {
	if m.player == nil {
		return ""
	}
	return m.player.Player.Name()
}
