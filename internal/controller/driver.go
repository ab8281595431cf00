package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/commatea/deskd/internal/desk"
	"github.com/commatea/deskd/internal/mailbox"
	"github.com/commatea/deskd/internal/motion"
	"github.com/commatea/deskd/internal/statefeed"
	"github.com/commatea/deskd/internal/units"
)

// Desk is the subset of *desk.Adapter the Driver touches directly
// (everything but the move primitives, which only the motion
// controller issues). Narrowing to an interface is what makes Driver
// testable without BLE.
type Desk interface {
	State() desk.DeskState
	Update(ctx context.Context) (desk.DeskState, error)
	Stop(ctx context.Context) error
	Subscribe() *statefeed.Receiver[desk.DeskState]
}

// Mover is the subset of *motion.OvershootController the Driver drives.
type Mover interface {
	MoveTo(ctx context.Context, target units.Position) error
}

// Driver is the single-writer actor owning the desk adapter and motion
// controller. Commands are submitted through Submit from any number of
// goroutines; Run consumes them one at a time on its own goroutine, the
// only place the desk is ever written to.
type Driver struct {
	deskAdapter Desk
	motionCtl   Mover
	mailbox     *mailbox.Mailbox[Command]
	log         *slog.Logger
}

// New builds a Driver over d and its motion controller. log may be nil,
// in which case Run logs nothing.
func New(d Desk, m Mover, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		deskAdapter: d,
		motionCtl:   m,
		mailbox:     mailbox.New[Command](),
		log:         log,
	}
}

// Submit enqueues cmd for the driver loop. The mailbox is a single
// latest-value slot: if a command is already pending when Submit is
// called, it is overwritten and its reply channel is closed without a
// value — the caller sees that as the controller having dropped its
// request in favor of a newer one.
func (d *Driver) Submit(cmd Command) {
	if old, had := d.mailbox.Swap(cmd); had {
		old.closeReply()
	}
}

// Close signals Run to exit once any in-flight command has been
// drained. It does not interrupt an in-flight move; Run does that only
// when ctx is cancelled or a new command preempts it.
func (d *Driver) Close() {
	d.mailbox.Close()
}

// Run drives commands until the mailbox is closed, ctx is cancelled, or
// a desk update returns a fatal (non-abort) error. It implements the
// idle/moving state machine: while idle it keeps the state feed fresh
// by polling desk updates; while moving, update consumption is owned
// by the in-flight motion.OvershootController.MoveTo call. A command
// arriving in either state preempts whatever update or move is
// currently being awaited before it is dispatched, so only one mutable
// operation against the desk is ever in flight.
func (d *Driver) Run(ctx context.Context) error {
	cmdCh := make(chan Command)
	go d.forwardCommands(ctx, cmdCh)

	idleCtx, idleCancel := context.WithCancel(ctx)
	idleDone := d.startIdleUpdate(idleCtx)

	var moveCancel context.CancelFunc
	var moveDone chan error

	stopMove := func() {
		if moveCancel == nil {
			return
		}
		moveCancel()
		<-moveDone
		moveCancel, moveDone = nil, nil
	}
	stopIdle := func() {
		idleCancel()
		<-idleDone
	}
	resumeIdle := func() {
		idleCtx, idleCancel = context.WithCancel(ctx)
		idleDone = d.startIdleUpdate(idleCtx)
	}

	for {
		if moveDone != nil {
			select {
			case err := <-moveDone:
				moveCancel, moveDone = nil, nil
				if fatal := classifyMotionErr(err); fatal != nil {
					return fatal
				}
				resumeIdle()
			case cmd, ok := <-cmdCh:
				if !ok {
					// Graceful shutdown: let the in-flight move finish on
					// its own rather than dropping it, per the mailbox-
					// closure state (distinct from real preemption below).
					err := <-moveDone
					moveCancel()
					return classifyMotionErr(err)
				}
				stopMove()
				moveCancel, moveDone = d.dispatch(ctx, cmd)
				if moveDone == nil {
					resumeIdle()
				}
			case <-ctx.Done():
				stopMove()
				return ctx.Err()
			}
			continue
		}

		select {
		case err := <-idleDone:
			if err != nil {
				return fmt.Errorf("desk update failed: %w", err)
			}
			idleDone = d.startIdleUpdate(idleCtx)
		case cmd, ok := <-cmdCh:
			if !ok {
				stopIdle()
				return nil
			}
			stopIdle()
			moveCancel, moveDone = d.dispatch(ctx, cmd)
			if moveDone == nil {
				resumeIdle()
			}
		case <-ctx.Done():
			stopIdle()
			return ctx.Err()
		}
	}
}

// classifyMotionErr decides whether a motion.MoveTo outcome is fatal
// to the driver loop. A user-visible abort or a cancellation caused by
// this driver's own preemption are both expected outcomes, not faults.
func classifyMotionErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, motion.ErrAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("motion failed: %w", err)
}

// forwardCommands adapts the mailbox's blocking Receive into a channel
// so it can take part in Run's select statements.
func (d *Driver) forwardCommands(ctx context.Context, out chan<- Command) {
	for {
		cmd, ok := d.mailbox.Receive(ctx.Done())
		if !ok {
			close(out)
			return
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			cmd.closeReply()
			return
		}
	}
}

// startIdleUpdate launches one background desk update fetch, reporting
// its outcome on the returned channel.
func (d *Driver) startIdleUpdate(ctx context.Context) chan error {
	done := make(chan error, 1)
	go func() {
		_, err := d.deskAdapter.Update(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		done <- err
	}()
	return done
}

// dispatch executes cmd against the desk/motion controller and
// delivers its reply. For MoveToCommand it starts the move in its own
// goroutine and returns a cancel func plus completion channel for Run
// to track; for every other command it returns (nil, nil) since the
// command is fully handled synchronously.
func (d *Driver) dispatch(ctx context.Context, cmd Command) (context.CancelFunc, chan error) {
	switch c := cmd.(type) {
	case GetStateCommand:
		c.reply <- Result[desk.DeskState]{Value: d.deskAdapter.State()}
		close(c.reply)
		return nil, nil

	case SubscribeStateCommand:
		c.reply <- Result[*statefeed.Receiver[desk.DeskState]]{Value: d.deskAdapter.Subscribe()}
		close(c.reply)
		return nil, nil

	case StopCommand:
		err := d.deskAdapter.Stop(ctx)
		if err != nil {
			d.log.Error("stop failed", "error", err)
		}
		c.reply <- Result[struct{}]{Err: err}
		close(c.reply)
		return nil, nil

	case MoveToCommand:
		moveCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- d.motionCtl.MoveTo(moveCtx, c.Target)
		}()
		c.reply <- Result[struct{}]{}
		close(c.reply)
		return cancel, done

	default:
		return nil, nil
	}
}
