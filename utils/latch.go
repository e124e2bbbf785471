package utils

// Latch detects rising edges: Run returns true only on the first call where v
// is true after a call where it was false.
type Latch struct {
	val bool
}

func (l *Latch) Run(v bool) bool {
	r := v && !l.val
	l.val = v
	return r
}

// Value returns the last value passed to Run.
func (l *Latch) Value() bool {
	return l.val
}

// Set forces the remembered value without reporting an edge.
func (l *Latch) Set(v bool) {
	l.val = v
}
