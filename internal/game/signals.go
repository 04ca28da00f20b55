package game

// SignalTracker counts the active signal circles. Circles always light up
// from the left, so the count alone describes the whole row.
type SignalTracker struct {
	max    int
	active int
}

func NewSignalTracker(max int) *SignalTracker {
	return &SignalTracker{max: max}
}

// Advance lights the next circle. It reports whether the row just became
// full; an advance on a full row changes nothing.
func (t *SignalTracker) Advance() (reachedMax bool) {
	if t.active >= t.max {
		return false
	}
	t.active++
	return t.active == t.max
}

// Retreat switches off the highest lit circle. It reports whether a circle
// was switched off.
func (t *SignalTracker) Retreat() bool {
	if t.active == 0 {
		return false
	}
	t.active--
	return true
}

func (t *SignalTracker) Reset() { t.active = 0 }

func (t *SignalTracker) Active() int { return t.active }

func (t *SignalTracker) Max() int { return t.max }

func (t *SignalTracker) Full() bool { return t.active >= t.max }

// Flags projects the counter onto the row of circles.
func (t *SignalTracker) Flags() []bool {
	flags := make([]bool, t.max)
	for i := 0; i < t.active; i++ {
		flags[i] = true
	}
	return flags
}
