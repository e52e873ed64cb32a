package engine

// Speed is the difficulty state. The multiplier is kept in hundredths so
// that drop timing and line awards come out exact.
type Speed struct {
	hundredths int
	step       int
	min        int
	perLevel   int
}

func newSpeed(cfg Config) Speed {
	return Speed{
		hundredths: cfg.Speed,
		step:       cfg.SpeedStep,
		min:        cfg.MinSpeed,
		perLevel:   cfg.LinesPerLevel,
	}
}

func (s Speed) Hundredths() int { return s.hundredths }

func (s Speed) Multiplier() float64 { return float64(s.hundredths) / 100 }

// TicksPerDrop is floor(base * multiplier), but at least one frame.
func (s Speed) TicksPerDrop(base int) int {
	return max(1, base*s.hundredths/100)
}

// LinePoints is floor(100 * (10 - multiplier*5)).
func (s Speed) LinePoints() int {
	return 1000 - 5*s.hundredths
}

// lineCleared lowers the multiplier when lines reaches a level boundary and
// reports whether it changed.
func (s *Speed) lineCleared(lines int) bool {
	if lines%s.perLevel != 0 || s.hundredths <= s.min {
		return false
	}
	s.hundredths = max(s.min, s.hundredths-s.step)
	return true
}
