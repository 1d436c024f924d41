package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

// Auto-repeat timing for held movement keys, in ticks.
const (
	repeatDelay    = 10
	repeatInterval = 2
)

var keyBindings = []struct {
	keys   []ebiten.Key
	cmd    game.Command
	repeat bool
}{
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, game.CmdLeft, true},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, game.CmdRight, true},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, game.CmdDown, true},
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyX}, game.CmdRotate, false},
	{[]ebiten.Key{ebiten.KeyZ, ebiten.KeyControlLeft}, game.CmdRotateCCW, false},
	{[]ebiten.Key{ebiten.KeyC, ebiten.KeyShiftLeft}, game.CmdHold, false},
	{[]ebiten.Key{ebiten.KeySpace}, game.CmdHardDrop, false},
}

// InputSystem turns keyboard state into queued commands.
type InputSystem struct{}

func (s *InputSystem) Execute(frame *runner.Frame) {
	for _, binding := range keyBindings {
		for _, key := range binding.keys {
			if triggered(key, binding.repeat) {
				frame.Commands.Push(binding.cmd)
				break
			}
		}
	}
}

func triggered(key ebiten.Key, repeat bool) bool {
	if inpututil.IsKeyJustPressed(key) {
		return true
	}
	if !repeat {
		return false
	}
	d := inpututil.KeyPressDuration(key)
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}
