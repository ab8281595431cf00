// Package motion implements the closed-loop algorithm that drives the
// desk to a requested position by repeatedly re-issuing a directional
// command and racing it against the desk's own state notifications.
package motion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commatea/deskd/internal/desk"
	"github.com/commatea/deskd/internal/units"
)

// ErrAborted is returned by MoveTo when the desk's reported velocity
// drops to zero before the target position is reached — someone or
// something stopped the desk out from under the control loop.
var ErrAborted = errors.New("motion aborted before target reached")

// Desk is the subset of *desk.Adapter the motion controller drives.
// Narrowing to an interface here, rather than depending on the
// concrete adapter, is what makes MoveTo testable without BLE.
type Desk interface {
	State() desk.DeskState
	MoveUp(ctx context.Context) error
	MoveDown(ctx context.Context) error
	Stop(ctx context.Context) error
	Update(ctx context.Context) (desk.DeskState, error)
}

// tickInterval is the period at which the directional command is
// re-issued while a move is in progress.
const tickInterval = 500 * time.Millisecond

// OvershootController drives a Desk to a target position by repeatedly
// issuing the directional move command every tick; the control loop
// keeps nudging until the reported position satisfies the target
// condition, then sends one final Stop. Because state notifications
// lag the motion, the desk may end up past (overshoot) the target.
type OvershootController struct {
	desk Desk
}

// New wraps desk in an OvershootController.
func New(d Desk) *OvershootController {
	return &OvershootController{desk: d}
}

// MoveTo drives the desk to target. If the desk is already at target,
// it returns immediately without issuing any writes. Otherwise it
// picks a direction, issues that direction's move command at once, and
// re-issues it every tick until the target condition is satisfied, at which point it
// issues one Stop and returns. If the desk's reported velocity reaches
// zero before the target condition is satisfied, MoveTo returns
// ErrAborted without issuing a Stop (the desk already isn't moving).
func (c *OvershootController) MoveTo(ctx context.Context, target units.Position) error {
	current := c.desk.State().Position
	switch {
	case current.Equal(target):
		return nil
	case current.Less(target):
		return c.driveUntil(ctx, target, c.desk.MoveUp, func(p units.Position) bool { return p.Less(target) })
	default:
		return c.driveUntil(ctx, target, c.desk.MoveDown, func(p units.Position) bool { return p.Greater(target) })
	}
}

// updateResult carries one Desk.Update outcome from the background
// fetch goroutine in driveUntil to the select loop.
type updateResult struct {
	state desk.DeskState
	err   error
}

// driveUntil re-issues move every tickInterval while notMet(current
// position) holds, racing each tick against the desk's own
// asynchronous update stream — the same race the teacher's firmware
// control loop runs between a timer and an incoming state frame. It
// returns once notMet no longer holds, having issued one final Stop;
// it returns ErrAborted if the desk's velocity reaches zero first.
func (c *OvershootController) driveUntil(ctx context.Context, target units.Position, move func(context.Context) error, notMet func(units.Position) bool) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	// time.Ticker does not fire on creation, so the first directional
	// write is sent here rather than waiting a full tickInterval.
	if err := move(ctx); err != nil {
		return fmt.Errorf("move toward %s: %w", target, err)
	}

	updateCtx, cancelUpdate := context.WithCancel(ctx)
	defer cancelUpdate()

	updates := make(chan updateResult, 1)
	fetchUpdate := func() {
		go func() {
			state, err := c.desk.Update(updateCtx)
			updates <- updateResult{state: state, err: err}
		}()
	}
	fetchUpdate()

	for notMet(c.desk.State().Position) {
		select {
		case <-ticker.C:
			if err := move(ctx); err != nil {
				return fmt.Errorf("move toward %s: %w", target, err)
			}
		case res := <-updates:
			if res.err != nil {
				return fmt.Errorf("update while moving toward %s: %w", target, res.err)
			}
			if res.state.Velocity.IsZero() {
				return ErrAborted
			}
			fetchUpdate()
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := c.desk.Stop(ctx); err != nil {
		return fmt.Errorf("stop at %s: %w", target, err)
	}
	return nil
}
