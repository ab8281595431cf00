package desk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// scanTimeout bounds how long BluetoothPeripheral.Discover waits for
// the target device to appear during scanning.
const scanTimeout = 30 * time.Second

// BluetoothPeripheral is the tinygo.org/x/bluetooth-backed Peripheral
// implementation used against real hardware. It talks to the host's
// first available BLE central adapter, the way
// original_source/src/desk.rs's btleplug-based Desk::find does.
type BluetoothPeripheral struct {
	mu sync.Mutex

	adapter *bluetooth.Adapter
	device  *bluetooth.Device
	chars   map[string]bluetooth.DeviceCharacteristic
}

// NewBluetoothPeripheral constructs a peripheral bound to the host's
// default adapter. The adapter isn't enabled until Discover is called.
func NewBluetoothPeripheral() *BluetoothPeripheral {
	return &BluetoothPeripheral{
		chars: make(map[string]bluetooth.DeviceCharacteristic),
	}
}

// Discover implements Peripheral.
func (p *BluetoothPeripheral) Discover(ctx context.Context, addr string, characteristicUUIDs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	adapter := bluetooth.DefaultAdapter
	if adapter == nil {
		return ErrNoAdapter
	}
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w", err)
	}
	p.adapter = adapter

	target, err := bluetooth.ParseMAC(addr)
	if err != nil {
		return fmt.Errorf("parse desk address %q: %w", addr, err)
	}

	// Scan blocks until StopScan, so it runs in its own goroutine to let
	// the timeout and ctx below bound the wait.
	found := make(chan bluetooth.ScanResult, 1)
	scanDone := make(chan error, 1)
	go func() {
		scanDone <- adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.Address.MAC == target {
				select {
				case found <- result:
				default:
				}
				a.StopScan()
			}
		})
	}()

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	case scanErr := <-scanDone:
		if scanErr != nil {
			return fmt.Errorf("start scan: %w", scanErr)
		}
		result = <-found
	case <-time.After(scanTimeout):
		adapter.StopScan()
		return fmt.Errorf("scan timeout: desk %s not found", addr)
	case <-ctx.Done():
		adapter.StopScan()
		return ctx.Err()
	}

	device, err := adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	p.device = &device

	services, err := device.DiscoverServices(nil)
	if err != nil {
		return fmt.Errorf("discover services: %w", err)
	}

	for _, uuid := range characteristicUUIDs {
		parsed, err := bluetooth.ParseUUID(uuid)
		if err != nil {
			return fmt.Errorf("parse characteristic uuid %q: %w", uuid, err)
		}
		if err := p.locateCharacteristic(services, parsed, uuid); err != nil {
			return err
		}
	}

	return nil
}

func (p *BluetoothPeripheral) locateCharacteristic(services []bluetooth.DeviceService, target bluetooth.UUID, rawUUID string) error {
	for _, svc := range services {
		chars, err := svc.DiscoverCharacteristics(nil)
		if err != nil {
			continue
		}
		for _, c := range chars {
			if c.UUID() == target {
				p.chars[rawUUID] = c
				return nil
			}
		}
	}
	return &ErrCharacteristicNotFound{Purpose: rawUUID, UUID: rawUUID}
}

// ReadCharacteristic implements Peripheral.
func (p *BluetoothPeripheral) ReadCharacteristic(uuid string) ([]byte, error) {
	p.mu.Lock()
	c, ok := p.chars[uuid]
	p.mu.Unlock()
	if !ok {
		return nil, &ErrCharacteristicNotFound{Purpose: uuid, UUID: uuid}
	}

	buf := make([]byte, 512)
	n, err := c.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read characteristic %s: %w", uuid, err)
	}
	return buf[:n], nil
}

// WriteCharacteristic implements Peripheral. Writes are fire-and-
// forget: no acknowledgement is awaited, matching the hardware's
// two-byte command protocol.
func (p *BluetoothPeripheral) WriteCharacteristic(uuid string, data []byte) error {
	p.mu.Lock()
	c, ok := p.chars[uuid]
	p.mu.Unlock()
	if !ok {
		return &ErrCharacteristicNotFound{Purpose: uuid, UUID: uuid}
	}

	if _, err := c.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("write characteristic %s: %w", uuid, err)
	}
	return nil
}

// SubscribeCharacteristic implements Peripheral. The returned channel
// buffers 16 notifications and drops new ones while full. It is never
// closed: a dropped connection is not signalled on it.
func (p *BluetoothPeripheral) SubscribeCharacteristic(uuid string) (<-chan Notification, error) {
	p.mu.Lock()
	c, ok := p.chars[uuid]
	p.mu.Unlock()
	if !ok {
		return nil, &ErrCharacteristicNotFound{Purpose: uuid, UUID: uuid}
	}

	ch := make(chan Notification, 16)
	err := c.EnableNotifications(func(buf []byte) {
		value := make([]byte, len(buf))
		copy(value, buf)
		select {
		case ch <- Notification{UUID: uuid, Value: value}:
		default:
			// slow subscriber: drop rather than block the BLE stack.
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe characteristic %s: %w", uuid, err)
	}
	return ch, nil
}
