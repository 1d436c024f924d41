package game

import "fmt"

// Command is a primitive player instruction.
type Command int

const (
	CmdNone Command = iota
	CmdLeft
	CmdRight
	CmdDown
	CmdRotate
	CmdRotateCCW
	CmdHold
	CmdHardDrop
)

var commandNames = [...]string{"none", "left", "right", "down", "rotate", "rotate-ccw", "hold", "hard-drop"}

func (c Command) String() string {
	if c >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Commands buffers player instructions issued during a frame. The engine
// flushes the buffer at the end of Tick, after gravity and lock delay have
// been resolved.
type Commands struct {
	queued   []Command
	defers   []func()
	rejected int
}

func newCommands() *Commands {
	return &Commands{}
}

// Push queues commands in order.
func (c *Commands) Push(cmds ...Command) {
	for _, cmd := range cmds {
		if cmd != CmdNone {
			c.queued = append(c.queued, cmd)
		}
	}
}

// Defer queues a function to run after the queued commands are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int { return len(c.queued) }

// Rejected returns how many flushed commands the engine refused.
func (c *Commands) Rejected() int { return c.rejected }

// Flush applies all queued commands to the engine, resetting the buffer state.
// Commands the engine rejects are dropped and counted.
func (c *Commands) Flush(e *Engine) {
	for _, cmd := range c.queued {
		if !e.Apply(cmd) {
			c.rejected++
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.queued = c.queued[:0]
	c.defers = c.defers[:0]
}

// Reset discards everything queued.
func (c *Commands) Reset() {
	c.queued = c.queued[:0]
	c.defers = c.defers[:0]
}
