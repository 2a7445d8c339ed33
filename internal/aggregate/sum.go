package aggregate

import "math"

// sum is a Neumaier compensated accumulator. Rounding error stays bounded
// regardless of how many samples are added.
type sum struct {
	total float64
	comp  float64
}

func (s *sum) add(v float64) {
	t := s.total + v
	if math.Abs(s.total) >= math.Abs(v) {
		s.comp += (s.total - t) + v
	} else {
		s.comp += (v - t) + s.total
	}
	s.total = t
}

func (s *sum) value() float64 {
	return s.total + s.comp
}
