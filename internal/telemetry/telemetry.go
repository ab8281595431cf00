// Package telemetry exposes deskd's Prometheus metrics: RPC call
// counts by method and status, BLE command writes by direction, and
// gauges for the desk's most recently observed position and velocity.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallCount counts RPC calls by method and outcome status.
	RPCCallCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deskd_rpc_calls_total",
		Help: "The total number of RPC calls served, by method and status.",
	}, []string{"method", "status"})

	// BLECommandCount counts BLE command writes by direction.
	BLECommandCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deskd_ble_commands_total",
		Help: "The total number of BLE command writes issued, by direction.",
	}, []string{"direction"})

	// DeskPositionCM is the most recently observed desk height.
	DeskPositionCM = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deskd_position_cm",
		Help: "The desk's most recently observed height in centimeters.",
	})

	// DeskVelocityCMPerSecond is the most recently observed desk velocity.
	DeskVelocityCMPerSecond = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deskd_velocity_cm_per_second",
		Help: "The desk's most recently observed velocity in centimeters per second.",
	})
)

// Direction labels for BLECommandCount.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionStop = "stop"
)

// Status labels for RPCCallCount.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ObserveRPCCall increments RPCCallCount for one completed call.
func ObserveRPCCall(method string, err error) {
	if err != nil {
		RPCCallCount.WithLabelValues(method, StatusError).Inc()
		return
	}
	RPCCallCount.WithLabelValues(method, StatusOK).Inc()
}

// ObserveBLECommand increments BLECommandCount for one command write.
func ObserveBLECommand(direction string) {
	BLECommandCount.WithLabelValues(direction).Inc()
}

// ObserveDeskState updates the position/velocity gauges.
func ObserveDeskState(positionCM, velocityCMPerSecond float32) {
	DeskPositionCM.Set(float64(positionCM))
	DeskVelocityCMPerSecond.Set(float64(velocityCMPerSecond))
}
