package game

import (
	"fmt"
	"slices"
)

// EventKind tags a notification emitted by the Engine.
type EventKind int

const (
	EventPieceMoved EventKind = iota
	EventPieceRotated
	EventPieceHeld
	EventPiecePlaced
	EventLinesCleared
	EventTSpin
	EventBackToBack
	EventGameOver
	EventPaused
	EventResumed
)

var eventNames = [...]string{
	EventPieceMoved:   "piece-moved",
	EventPieceRotated: "piece-rotated",
	EventPieceHeld:    "piece-held",
	EventPiecePlaced:  "piece-placed",
	EventLinesCleared: "lines-cleared",
	EventTSpin:        "t-spin",
	EventBackToBack:   "back-to-back",
	EventGameOver:     "game-over",
	EventPaused:       "paused",
	EventResumed:      "resumed",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a single notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	Piece  Piece
	Lines  int   // EventLinesCleared, EventTSpin
	Rows   []int // EventLinesCleared: cleared row indices before compaction
	Points int   // points awarded by the lock
	Score  Score // totals after the event
	Won    bool  // EventGameOver: goal reached rather than topped out
}

// Observer receives engine notifications synchronously.
type Observer interface {
	OnEvent(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

func (f ObserverFunc) OnEvent(ev Event) { f(ev) }

type observerSet struct {
	nextID    int
	observers map[int]Observer
	order     []int
}

func (s *observerSet) add(o Observer) func() {
	if s.observers == nil {
		s.observers = make(map[int]Observer)
	}
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.order = append(s.order, id)
	return func() {
		delete(s.observers, id)
		for i, other := range s.order {
			if other == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *observerSet) emit(ev Event) {
	for _, id := range slices.Clone(s.order) {
		if o, ok := s.observers[id]; ok {
			o.OnEvent(ev)
		}
	}
}
