package units

import "fmt"

// Velocity is the desk's current rate of travel, stored as a signed
// tick count where one tick equals 0.01 mm/s.
type Velocity struct {
	ticks int16
}

// NewVelocityFromTicks wraps a raw signed tick count. No bounds apply.
func NewVelocityFromTicks(ticks int16) Velocity {
	return Velocity{ticks: ticks}
}

// CMPerSecond returns the velocity in centimeters per second.
func (v Velocity) CMPerSecond() float32 {
	return float32(v.ticks) / 1000.0
}

// Ticks returns the raw signed tick count.
func (v Velocity) Ticks() int16 {
	return v.ticks
}

// IsZero reports whether the tick count is exactly zero.
func (v Velocity) IsZero() bool {
	return v.ticks == 0
}

// String renders the velocity the way a log line or CLI would.
func (v Velocity) String() string {
	return fmt.Sprintf("%6.3f cm/s", v.CMPerSecond())
}
