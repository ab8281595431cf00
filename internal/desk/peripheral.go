package desk

import "context"

// Notification is one value-change event delivered by the peripheral
// on a subscribed characteristic.
type Notification struct {
	UUID  string
	Value []byte
}

// Peripheral is the abstract BLE control surface the Desk Adapter
// drives: acquire a central adapter, scan for and connect to one
// device by address, discover its GATT characteristics, then read,
// write and subscribe against them. Exactly these four operations are
// the contract spec.md §4.1 describes; everything about the real BLE
// stack (adapters, scanning, GATT discovery) lives behind Discover.
type Peripheral interface {
	// Discover acquires a central adapter, scans until a device
	// advertising addr is found, connects, and resolves the
	// characteristic UUIDs the caller will later Read/Write/Subscribe
	// against. It returns ErrNoAdapter if no adapter is available and
	// *ErrCharacteristicNotFound if a required characteristic is
	// missing once connected.
	Discover(ctx context.Context, addr string, characteristicUUIDs []string) error

	// ReadCharacteristic performs one synchronous read.
	ReadCharacteristic(uuid string) ([]byte, error)

	// WriteCharacteristic performs a fire-and-forget write (no
	// acknowledgement awaited).
	WriteCharacteristic(uuid string, data []byte) error

	// SubscribeCharacteristic enables notifications on uuid and
	// returns a channel of future Notification values. The channel is
	// closed if the underlying connection drops.
	SubscribeCharacteristic(uuid string) (<-chan Notification, error)
}
