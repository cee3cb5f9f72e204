package mover

import "math"

const (
	circularRadius      = 50
	circularStepDegrees = 10
)

func linearVector(direction Direction, distance int) (int, int) {
	switch direction {
	case DirectionLeft:
		return -distance, 0
	case DirectionUp:
		return 0, -distance
	case DirectionDown:
		return 0, distance
	default:
		return distance, 0
	}
}

// directionVector yields the raw per-tick displacement before boundary
// reflection. Linear directions read the persistent (vx, vy) pair so a
// reflection at a window edge keeps reversing them; circular motion is
// recomputed from the phase angle every tick.
func (s *Service) directionVector() (int, int) {
	if s.cfg.Direction == DirectionCircular {
		return s.circularVector()
	}
	return s.vx, s.vy
}

func (s *Service) circularVector() (int, int) {
	radius := float64(circularRadius)
	if s.bounds != nil {
		if quarter := float64(s.bounds.Width()) / 4; quarter < radius {
			radius = quarter
		}
	}
	rad := float64(s.angle) * math.Pi / 180
	x := int(math.Round(radius * math.Cos(rad)))
	y := int(math.Round(radius * math.Sin(rad)))
	s.angle = (s.angle + circularStepDegrees) % 360
	return x, y
}
