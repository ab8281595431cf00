package rpc

// Message types exchanged over the DeskService RPC contract. They are
// plain Go structs rather than generated protobuf messages — see
// desk.proto and codec.go for why — but their field shapes mirror what
// protoc-gen-go would produce from desk.proto, so a future migration to
// real generated code only has to change the wire codec, not callers.

// GetStateRequest carries no fields.
type GetStateRequest struct{}

// GetStateResponse reports the desk's current position and velocity.
type GetStateResponse struct {
	PositionCM         float32 `json:"position_cm"`
	VelocityCMPerSecond float32 `json:"velocity_cm_per_second"`
}

// SubscribeStateRequest carries no fields.
type SubscribeStateRequest struct{}

// StateUpdate is one server-streamed state sample.
type StateUpdate struct {
	PositionCM         float32 `json:"position_cm"`
	VelocityCMPerSecond float32 `json:"velocity_cm_per_second"`
}

// StopRequest carries no fields.
type StopRequest struct{}

// StopResponse carries no fields.
type StopResponse struct{}

// StartMoveRequest names a target height in centimeters.
type StartMoveRequest struct {
	TargetCM float32 `json:"target_cm"`
}

// StartMoveResponse carries no fields. It is returned as soon as the
// move is dispatched to the controller, not when the desk arrives.
type StartMoveResponse struct{}
