package game

import "time"

// State is a read-only snapshot of an Engine. Board and slices are copies;
// mutating them does not affect the engine.
type State struct {
	Board           *Board
	Width, Height   int
	ActivePiece     *Piece
	NextPieces      []Piece
	HeldPiece       *Piece
	CanHold         bool
	Score           Score
	IsPlaying       bool
	IsPaused        bool
	GameOver        bool
	Won             bool
	BackToBack      bool
	Phase           Phase
	PieceID         int
	Elapsed         time.Duration
	LockDelayActive bool
	Rules           Rules
}

// State captures the current engine state.
func (e *Engine) State() *State {
	s := &State{
		Board:           e.board.Clone(),
		Width:           e.width,
		Height:          e.height,
		NextPieces:      append([]Piece(nil), e.queue...),
		CanHold:         e.canCommand() && !e.holdUsed,
		Score:           e.score,
		IsPlaying:       e.playing,
		IsPaused:        e.paused,
		GameOver:        e.gameOver,
		Won:             e.won,
		BackToBack:      e.score.BackToBack,
		Phase:           e.phase,
		PieceID:         e.pieceID,
		Elapsed:         e.elapsed,
		LockDelayActive: e.lockActive,
		Rules:           e.rules,
	}
	if e.hasActive {
		active := e.active
		s.ActivePiece = &active
	}
	if e.hasHeld {
		held := e.held
		s.HeldPiece = &held
	}
	return s
}

// Ghost returns where the active piece would land, if there is one.
func (s *State) Ghost() (Piece, bool) {
	if s.ActivePiece == nil {
		return Piece{}, false
	}
	landed, _ := HardDrop(*s.ActivePiece, s.Board)
	return landed, true
}
