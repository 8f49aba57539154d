package planning

import (
	"time"

	"github.com/google/uuid"
)

// TrajectoryPoint is the seed point a planning cycle starts from: where the
// previous cycle's trajectory expects the vehicle to be when the new
// trajectory takes over.
type TrajectoryPoint struct {
	X            float64
	Y            float64
	Heading      float64
	Velocity     float64
	RelativeTime float64
}

// VehicleState summarises the ego vehicle at the start of a cycle.
type VehicleState struct {
	Position TrajectoryPoint
	// Odometer is the distance travelled since the run started, in meters.
	Odometer float64
	// Standstill reports whether the vehicle is effectively stopped.
	Standstill bool
}

// Frame is the per-cycle planning record. The scenario controller forwards
// it to the active stage unmodified; stages read the vehicle state and
// publish their output through it.
type Frame struct {
	ID        string
	Sequence  uint64
	Timestamp time.Time
	Vehicle   VehicleState

	// Trajectory is the stage's output for this cycle.
	Trajectory []TrajectoryPoint
}

// NewFrame constructs a frame for the given cycle sequence number.
func NewFrame(seq uint64, vehicle VehicleState) *Frame {
	return &Frame{
		ID:        uuid.New().String(),
		Sequence:  seq,
		Timestamp: time.Now(),
		Vehicle:   vehicle,
	}
}
