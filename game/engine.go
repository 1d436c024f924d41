// Package game implements the falling-block simulation: board, pieces,
// movement strategies, scoring and the tick-driven Engine state machine.
package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	DefaultWidth      = 10
	DefaultHeight     = 20
	DefaultQueueDepth = 3

	// LockDelay is how long a grounded piece may rest before it locks.
	LockDelay = 500 * time.Millisecond
	// MaxLockResets caps lock-delay resets from moves and rotations per row.
	MaxLockResets = 15

	rescueRows = 4
)

// Phase is the engine's position in the piece lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpawning
	PhaseFalling
	PhaseLockDelay
	PhaseLocking
	PhaseClearing
	PhaseGameOver
)

var phaseNames = [...]string{"idle", "spawning", "falling", "lock-delay", "locking", "clearing", "game-over"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the default 7-bag generator.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.gen = NewBagGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	}
}

// WithGenerator replaces the piece generator.
func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithQueueDepth sets how many upcoming pieces are visible.
func WithQueueDepth(n int) Option {
	return func(e *Engine) { e.depth = max(1, n) }
}

// WithBoardSize overrides the playfield dimensions.
func WithBoardSize(width, height int) Option {
	return func(e *Engine) {
		e.width = width
		e.height = height
	}
}

// WithBoard starts every game from a copy of b instead of an empty board.
func WithBoard(b *Board) Option {
	return func(e *Engine) {
		e.initial = b.Clone()
		e.width, e.height = b.Width(), b.Height()
	}
}

// WithObserver subscribes o before the first game starts.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers.add(o) }
}

// Engine is the tick-driven game state machine. It is not safe for
// concurrent use; a single driver calls Tick and issues commands.
type Engine struct {
	rules  Rules
	width  int
	height int
	depth  int
	gen    Generator

	initial   *Board
	board     *Board
	score     Score
	active    Piece
	hasActive bool
	queue     []Piece
	held      Piece
	hasHeld   bool
	holdUsed  bool

	phase    Phase
	playing  bool
	paused   bool
	gameOver bool
	won      bool

	gravity    time.Duration
	lockActive bool
	lockTimer  time.Duration
	lockResets int
	lowestRow  int
	elapsed    time.Duration
	pieceID    int

	observers observerSet
	commands  *Commands
}

// NewEngine creates an engine. Call Initialize to start a game.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		width:    DefaultWidth,
		height:   DefaultHeight,
		depth:    DefaultQueueDepth,
		commands: newCommands(),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.gen == nil {
		e.gen = NewBagGenerator(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	}
	e.board = NewBoard(e.width, e.height)
	e.score = newScore(Marathon())
	return e
}

// Subscribe registers an observer and returns a function that removes it.
func (e *Engine) Subscribe(o Observer) (unsubscribe func()) {
	return e.observers.add(o)
}

// Commands returns the deferred command buffer flushed at the end of Tick.
func (e *Engine) Commands() *Commands { return e.commands }

// Initialize resets board, score and queues under the given rules and
// spawns the first piece.
func (e *Engine) Initialize(rules Rules) {
	e.rules = rules
	if e.initial != nil {
		e.board = e.initial.Clone()
	} else {
		e.board = NewBoard(e.width, e.height)
	}
	e.score = newScore(rules)
	e.hasActive = false
	e.hasHeld = false
	e.holdUsed = false
	e.paused = false
	e.gameOver = false
	e.won = false
	e.playing = true
	e.elapsed = 0
	e.pieceID = 0
	e.commands.Reset()

	first := NewPiece(e.gen.Next(), e.width)
	e.queue = e.queue[:0]
	for len(e.queue) < e.depth {
		e.queue = append(e.queue, NewPiece(e.gen.Next(), e.width))
	}
	e.spawn(first)
}

// Restart starts a new game with the current rules.
func (e *Engine) Restart() {
	e.Initialize(e.rules)
}

func (e *Engine) takeNext() Piece {
	next := e.queue[0]
	copy(e.queue, e.queue[1:])
	e.queue[len(e.queue)-1] = NewPiece(e.gen.Next(), e.width)
	return next
}

func (e *Engine) spawn(p Piece) {
	e.phase = PhaseSpawning
	e.pieceID++
	e.gravity = 0
	e.lockActive = false
	e.lockTimer = 0
	e.lockResets = 0
	e.lowestRow = p.Y

	if !e.board.CanPlace(p) {
		if e.rules.AllowGameOver {
			e.endGame(false)
			return
		}
		for rows := rescueRows; !e.board.CanPlace(p); rows += rescueRows {
			e.board.ClearTopRows(rows)
		}
	}
	e.active = p
	e.hasActive = true
	e.phase = PhaseFalling
}

func (e *Engine) canCommand() bool {
	return e.playing && !e.paused && !e.gameOver && e.hasActive
}

// Apply executes a primitive command and reports whether it took effect.
func (e *Engine) Apply(cmd Command) bool {
	switch cmd {
	case CmdLeft:
		return e.MovePiece(Left)
	case CmdRight:
		return e.MovePiece(Right)
	case CmdDown:
		return e.MovePiece(Down)
	case CmdRotate:
		return e.RotatePiece()
	case CmdRotateCCW:
		return e.RotatePieceCCW()
	case CmdHold:
		return e.HoldPiece()
	case CmdHardDrop:
		return e.HardDrop()
	}
	return false
}

// MovePiece shifts the active piece. Moving down is a soft drop worth one
// point per row; a blocked down move starts the lock delay instead.
func (e *Engine) MovePiece(dir Direction) bool {
	if !e.canCommand() {
		return false
	}
	if dir == Down {
		return e.moveDown(true)
	}
	next, ok := Move(e.active, e.board, dir)
	if !ok {
		return false
	}
	e.active = next
	e.afterShift()
	e.observers.emit(Event{Kind: EventPieceMoved, Piece: next, Score: e.score})
	return true
}

func (e *Engine) moveDown(soft bool) bool {
	next, ok := Move(e.active, e.board, Down)
	if !ok {
		e.startLockDelay()
		return false
	}
	e.active = next
	e.cancelLockDelay()
	e.gravity = 0
	if next.Y > e.lowestRow {
		e.lowestRow = next.Y
		e.lockResets = 0
		e.lockTimer = 0
	}
	if soft {
		e.score.Points++
	}
	e.observers.emit(Event{Kind: EventPieceMoved, Piece: next, Score: e.score})
	return true
}

// RotatePiece turns the active piece clockwise.
func (e *Engine) RotatePiece() bool { return e.rotate(true) }

// RotatePieceCCW turns the active piece counter-clockwise.
func (e *Engine) RotatePieceCCW() bool { return e.rotate(false) }

func (e *Engine) rotate(clockwise bool) bool {
	if !e.canCommand() {
		return false
	}
	next, ok := Rotate(e.active, e.board, clockwise)
	if !ok {
		return false
	}
	e.active = next
	e.afterShift()
	e.observers.emit(Event{Kind: EventPieceRotated, Piece: next, Score: e.score})
	return true
}

// afterShift applies the lock-delay rules after a successful move or rotation.
func (e *Engine) afterShift() {
	if !e.lockActive {
		return
	}
	if e.lockResets < MaxLockResets {
		e.lockTimer = 0
		e.lockResets++
	}
	if !Grounded(e.active, e.board) {
		e.cancelLockDelay()
	}
}

func (e *Engine) startLockDelay() {
	if e.lockActive {
		return
	}
	e.lockActive = true
	e.phase = PhaseLockDelay
}

// cancelLockDelay stops the timer. Once the reset budget is spent the
// accumulated time is kept so that regrounding resumes the countdown.
func (e *Engine) cancelLockDelay() {
	e.lockActive = false
	if e.lockResets < MaxLockResets {
		e.lockTimer = 0
	}
	if e.hasActive && !e.gameOver {
		e.phase = PhaseFalling
	}
}

// HoldPiece swaps the active piece with the hold slot, once per piece.
func (e *Engine) HoldPiece() bool {
	if !e.canCommand() || e.holdUsed {
		return false
	}
	current := e.active.Respawned(e.width)
	var next Piece
	if e.hasHeld {
		next = e.held.Respawned(e.width)
	} else {
		next = e.takeNext()
		e.hasHeld = true
	}
	e.held = current
	e.holdUsed = true
	e.observers.emit(Event{Kind: EventPieceHeld, Piece: current, Score: e.score})
	e.spawn(next)
	return true
}

// HardDrop drops the active piece to its landing row, awarding two points
// per row, and locks it immediately.
func (e *Engine) HardDrop() bool {
	if !e.canCommand() {
		return false
	}
	landed, distance := HardDrop(e.active, e.board)
	e.active = landed
	e.score.Points += 2 * distance
	e.lockPiece()
	return true
}

// PlacePiece locks the active piece where it currently is.
func (e *Engine) PlacePiece() bool {
	if !e.canCommand() {
		return false
	}
	e.lockPiece()
	return true
}

func (e *Engine) lockPiece() {
	e.phase = PhaseLocking
	p := e.active
	if !e.board.CanPlace(p) {
		panic(fmt.Sprintf("locking piece %v over filled or off-board cells", p))
	}
	e.board.Place(p)
	e.lockActive = false
	e.lockTimer = 0
	e.hasActive = false
	e.observers.emit(Event{Kind: EventPiecePlaced, Piece: p, Score: e.score})

	e.phase = PhaseClearing
	rows := e.board.FullRows()
	cleared := e.board.ClearFullRows()
	res := e.score.applyLock(cleared, p.IsTSpin, e.rules)
	if cleared > 0 {
		e.observers.emit(Event{Kind: EventLinesCleared, Piece: p, Lines: cleared, Rows: rows, Points: res.awarded, Score: e.score})
	}
	if p.IsTSpin {
		e.observers.emit(Event{Kind: EventTSpin, Piece: p, Lines: cleared, Points: res.awarded, Score: e.score})
	}
	if res.backToBack {
		e.observers.emit(Event{Kind: EventBackToBack, Piece: p, Lines: cleared, Points: res.awarded, Score: e.score})
	}

	e.holdUsed = false
	next := e.takeNext()

	if e.rules.GoalLines > 0 && e.score.Lines >= e.rules.GoalLines {
		e.endGame(true)
		return
	}
	if e.board.IsTopRowOccupied() {
		if e.rules.AllowGameOver {
			e.endGame(false)
			return
		}
		e.board.ClearTopRows(rescueRows)
	}
	e.spawn(next)
}

func (e *Engine) endGame(won bool) {
	if e.gameOver {
		return
	}
	e.gameOver = true
	e.won = won
	e.playing = false
	e.hasActive = false
	e.lockActive = false
	e.phase = PhaseGameOver
	e.observers.emit(Event{Kind: EventGameOver, Score: e.score, Won: won})
}

// Tick advances the clock by dt. Lock delay and gravity are resolved first,
// then the deferred command buffer is flushed. Gravity does not advance
// while the lock delay is running.
func (e *Engine) Tick(dt time.Duration) {
	defer e.commands.Flush(e)

	if !e.playing || e.paused || e.gameOver {
		return
	}
	e.elapsed += dt
	if e.rules.TimeLimit > 0 && e.elapsed >= e.rules.TimeLimit {
		e.endGame(true)
		return
	}
	if !e.hasActive {
		return
	}
	if e.lockActive {
		e.lockTimer += dt
		if e.lockTimer >= LockDelay {
			e.lockPiece()
		}
		return
	}
	e.gravity += dt
	if e.gravity >= DropInterval(e.score.Level) {
		e.gravity = 0
		e.moveDown(false)
	}
}

// Pause halts gravity and lock delay, keeping accumulated timers.
func (e *Engine) Pause() {
	if !e.playing || e.paused {
		return
	}
	e.paused = true
	e.observers.emit(Event{Kind: EventPaused, Score: e.score})
}

// Resume continues a paused game.
func (e *Engine) Resume() {
	if !e.playing || !e.paused {
		return
	}
	e.paused = false
	e.observers.emit(Event{Kind: EventResumed, Score: e.score})
}
