package units

import (
	"encoding/binary"
	"fmt"
)

// FrameLength is the exact size of a state notification payload: two
// little-endian position ticks followed by two little-endian signed
// velocity ticks.
const FrameLength = 4

// ErrBadFrameLength is returned by DecodeFrame when the payload isn't
// exactly FrameLength bytes.
var ErrBadFrameLength = fmt.Errorf("state frame must be %d bytes", FrameLength)

// DecodeFrame decodes a raw 4-byte state notification into a Position
// and Velocity. A frame of the wrong length is a protocol fault. A
// decoded position that violates the tick-count invariant is also a
// protocol fault, fatal to whichever call observed it.
func DecodeFrame(raw []byte) (Position, Velocity, error) {
	if len(raw) != FrameLength {
		return Position{}, Velocity{}, fmt.Errorf("%w: got %d", ErrBadFrameLength, len(raw))
	}

	posTicks := binary.LittleEndian.Uint16(raw[0:2])
	velTicks := int16(binary.LittleEndian.Uint16(raw[2:4]))

	pos, err := newPositionFromTicks(posTicks)
	if err != nil {
		return Position{}, Velocity{}, err
	}

	return pos, NewVelocityFromTicks(velTicks), nil
}
