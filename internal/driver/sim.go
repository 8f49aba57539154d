package driver

import (
	"math"
	"time"

	"github.com/lucasvautier/planrun/internal/planning"
)

const standstillSpeed = 0.05

// SimSource is a kinematic frame source: each cycle it advances a virtual
// vehicle along the previous cycle's trajectory at the trajectory's speed.
// It exists so a scenario can be exercised end to end without a vehicle.
type SimSource struct {
	period   time.Duration
	now      time.Time
	position planning.TrajectoryPoint
	odometer float64
	speed    float64
}

// NewSimSource creates a simulated vehicle stepping cyclePeriod per cycle.
func NewSimSource(cyclePeriod time.Duration) *SimSource {
	if cyclePeriod <= 0 {
		cyclePeriod = 100 * time.Millisecond
	}
	return &SimSource{period: cyclePeriod, now: time.Now()}
}

// Next returns the seed point and a fresh frame for the given cycle.
func (s *SimSource) Next(seq uint64) (*planning.TrajectoryPoint, *planning.Frame) {
	point := s.position
	point.Velocity = s.speed

	frame := planning.NewFrame(seq, planning.VehicleState{
		Position:   point,
		Odometer:   s.odometer,
		Standstill: s.speed < standstillSpeed,
	})
	frame.Timestamp = s.now

	return &point, frame
}

// Observe advances the simulated vehicle along the cycle's output.
func (s *SimSource) Observe(frame *planning.Frame) {
	s.now = s.now.Add(s.period)

	if frame == nil || len(frame.Trajectory) == 0 {
		s.speed = 0
		return
	}

	s.speed = frame.Trajectory[0].Velocity
	step := s.speed * s.period.Seconds()
	s.odometer += step

	heading := frame.Trajectory[0].Heading
	s.position.X = frame.Trajectory[0].X + step*math.Cos(heading)
	s.position.Y = frame.Trajectory[0].Y + step*math.Sin(heading)
	s.position.Heading = heading
}

// Odometer reports the distance the simulated vehicle has covered.
func (s *SimSource) Odometer() float64 {
	return s.odometer
}
