package desk

import "github.com/commatea/deskd/internal/units"

// DeskState is the most recently observed position and velocity of the
// physical desk.
type DeskState struct {
	Position units.Position
	Velocity units.Velocity
}
