package desk

import (
	"context"
	"fmt"

	"github.com/commatea/deskd/internal/statefeed"
	"github.com/commatea/deskd/internal/telemetry"
	"github.com/commatea/deskd/internal/units"
)

// Adapter owns exclusive access to one Peripheral's state and command
// characteristics and republishes every observed state frame onto a
// broadcast-latest feed that any number of subscribers can follow.
type Adapter struct {
	peripheral Peripheral
	cfg        Config
	notify     <-chan Notification

	feed *statefeed.Feed[DeskState]
}

// Find runs the discovery protocol against peripheral: resolve the
// state and command characteristics, subscribe to state notifications,
// take one synchronous read to seed the initial state, and return a
// ready Adapter.
func Find(ctx context.Context, peripheral Peripheral, cfg Config) (*Adapter, error) {
	cfg = cfg.WithDefaults()

	uuids := []string{cfg.StateCharacteristicUUID, cfg.CommandCharacteristicUUID}
	if err := peripheral.Discover(ctx, cfg.Address, uuids); err != nil {
		return nil, fmt.Errorf("discover desk at %s: %w", cfg.Address, err)
	}

	notify, err := peripheral.SubscribeCharacteristic(cfg.StateCharacteristicUUID)
	if err != nil {
		return nil, fmt.Errorf("subscribe state characteristic: %w", err)
	}

	raw, err := peripheral.ReadCharacteristic(cfg.StateCharacteristicUUID)
	if err != nil {
		return nil, fmt.Errorf("read initial state: %w", err)
	}
	pos, vel, err := units.DecodeFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("decode initial state: %w", err)
	}

	a := &Adapter{
		peripheral: peripheral,
		cfg:        cfg,
		notify:     notify,
		feed:       statefeed.New(DeskState{Position: pos, Velocity: vel}),
	}
	return a, nil
}

// MoveUp writes the up command to the command characteristic.
func (a *Adapter) MoveUp(ctx context.Context) error {
	err := a.writeCommand(a.cfg.UpCommand)
	telemetry.ObserveBLECommand(telemetry.DirectionUp)
	return err
}

// MoveDown writes the down command to the command characteristic.
func (a *Adapter) MoveDown(ctx context.Context) error {
	err := a.writeCommand(a.cfg.DownCommand)
	telemetry.ObserveBLECommand(telemetry.DirectionDown)
	return err
}

// Stop writes the stop command to the command characteristic.
func (a *Adapter) Stop(ctx context.Context) error {
	err := a.writeCommand(a.cfg.StopCommand)
	telemetry.ObserveBLECommand(telemetry.DirectionStop)
	return err
}

func (a *Adapter) writeCommand(cmd []byte) error {
	if err := a.peripheral.WriteCharacteristic(a.cfg.CommandCharacteristicUUID, cmd); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// Update blocks for the next state notification, decodes it, publishes
// it to the feed, and returns it. A decode error or a closed
// notification stream is fatal to the call: the caller must not retry
// Update on the same error, per spec.md §7.
func (a *Adapter) Update(ctx context.Context) (DeskState, error) {
	select {
	case n, ok := <-a.notify:
		if !ok {
			return DeskState{}, ErrNotificationStreamClosed
		}
		if n.UUID != a.cfg.StateCharacteristicUUID {
			return DeskState{}, &ErrUnexpectedNotification{UUID: n.UUID}
		}
		pos, vel, err := units.DecodeFrame(n.Value)
		if err != nil {
			return DeskState{}, fmt.Errorf("decode state notification: %w", err)
		}
		state := DeskState{Position: pos, Velocity: vel}
		a.feed.Publish(state)
		telemetry.ObserveDeskState(state.Position.CM(), state.Velocity.CMPerSecond())
		return state, nil
	case <-ctx.Done():
		return DeskState{}, ctx.Err()
	}
}

// State returns the most recently published DeskState without waiting
// for a new notification.
func (a *Adapter) State() DeskState {
	return a.feed.Latest()
}

// Subscribe returns a new broadcast-latest receiver onto this
// Adapter's state feed. Each receiver sees only future updates and is
// independent of every other subscriber.
func (a *Adapter) Subscribe() *statefeed.Receiver[DeskState] {
	return a.feed.Subscribe()
}
