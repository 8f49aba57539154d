package planning

import "math"

// Rollout generates a constant-speed trajectory from the seed point along
// its heading, sampled at dt over horizon seconds. Stages use it to publish
// a drivable path for the cycle; the profile is deliberately simple, speed
// shaping belongs to the stage that calls it.
func Rollout(seed TrajectoryPoint, speed, horizon, dt float64) []TrajectoryPoint {
	if dt <= 0 || horizon <= 0 {
		return nil
	}

	n := int(horizon/dt) + 1
	points := make([]TrajectoryPoint, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		points = append(points, TrajectoryPoint{
			X:            seed.X + speed*t*math.Cos(seed.Heading),
			Y:            seed.Y + speed*t*math.Sin(seed.Heading),
			Heading:      seed.Heading,
			Velocity:     speed,
			RelativeTime: seed.RelativeTime + t,
		})
	}
	return points
}
