package barrier

import "fmt"

// DrainOrder selects which queued continuation runs first when the barrier clears.
type DrainOrder int

const (
	// LIFO runs the most recently registered continuation first.
	LIFO DrainOrder = iota
	// FIFO runs continuations in registration order.
	FIFO
)

func (o DrainOrder) String() string {
	switch o {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	default:
		return fmt.Sprintf("DrainOrder(%d)", int(o))
	}
}

// Option configures a [Barrier] built with [New].
type Option func(*Barrier)

// WithDrainOrder sets the order in which queued continuations are drained.
// Unknown values fall back to [LIFO].
func WithDrainOrder(o DrainOrder) Option {
	return func(b *Barrier) {
		if o != FIFO {
			o = LIFO
		}
		b.order = o
	}
}
