// Package controller runs the single-writer actor that owns the motion
// controller and the desk adapter: exactly one goroutine ever issues a
// mutable operation against them, so every request is funneled through
// a command mailbox and dispatched by a single driver loop.
package controller

import (
	"github.com/commatea/deskd/internal/desk"
	"github.com/commatea/deskd/internal/statefeed"
	"github.com/commatea/deskd/internal/units"
)

// Command is the sum type of requests the Driver accepts. Go has no
// built-in sum type, so each variant is its own concrete type
// satisfying the marker interface — the idiomatic encoding for this
// shape.
type Command interface {
	isCommand()

	// closeReply closes this command's reply channel without sending a
	// value. The Driver calls this on a command that gets preempted
	// out of the mailbox before it was ever dispatched.
	closeReply()
}

// Result carries either a value or an error from the driver back to a
// command's submitter over a single-shot reply channel.
type Result[T any] struct {
	Value T
	Err   error
}

// GetStateCommand asks for the desk's current state.
type GetStateCommand struct {
	reply chan Result[desk.DeskState]
}

// NewGetStateCommand builds a GetStateCommand together with the
// channel its result will arrive on.
func NewGetStateCommand() (GetStateCommand, <-chan Result[desk.DeskState]) {
	ch := make(chan Result[desk.DeskState], 1)
	return GetStateCommand{reply: ch}, ch
}

func (c GetStateCommand) isCommand()  {}
func (c GetStateCommand) closeReply() { close(c.reply) }

// SubscribeStateCommand asks for a new state feed receiver.
type SubscribeStateCommand struct {
	reply chan Result[*statefeed.Receiver[desk.DeskState]]
}

// NewSubscribeStateCommand builds a SubscribeStateCommand together
// with the channel its result will arrive on.
func NewSubscribeStateCommand() (SubscribeStateCommand, <-chan Result[*statefeed.Receiver[desk.DeskState]]) {
	ch := make(chan Result[*statefeed.Receiver[desk.DeskState]], 1)
	return SubscribeStateCommand{reply: ch}, ch
}

func (c SubscribeStateCommand) isCommand()  {}
func (c SubscribeStateCommand) closeReply() { close(c.reply) }

// StopCommand asks the driver to stop the desk, preempting any
// in-flight move.
type StopCommand struct {
	reply chan Result[struct{}]
}

// NewStopCommand builds a StopCommand together with the channel its
// result will arrive on.
func NewStopCommand() (StopCommand, <-chan Result[struct{}]) {
	ch := make(chan Result[struct{}], 1)
	return StopCommand{reply: ch}, ch
}

func (c StopCommand) isCommand()  {}
func (c StopCommand) closeReply() { close(c.reply) }

// MoveToCommand asks the driver to move the desk to Target, preempting
// any in-flight move. The reply fires as soon as the move is
// dispatched, not when it completes — the driver has no way to report
// a motion's eventual outcome back to its caller.
type MoveToCommand struct {
	Target units.Position
	reply  chan Result[struct{}]
}

// NewMoveToCommand builds a MoveToCommand together with the channel
// its result will arrive on.
func NewMoveToCommand(target units.Position) (MoveToCommand, <-chan Result[struct{}]) {
	ch := make(chan Result[struct{}], 1)
	return MoveToCommand{Target: target, reply: ch}, ch
}

func (c MoveToCommand) isCommand()  {}
func (c MoveToCommand) closeReply() { close(c.reply) }
