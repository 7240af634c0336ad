package pool

type fixed[T any] struct {
	available chan T
	all       chan T
	buf       chan T
	newFn     func() T
}

// NewFixed returns a pool that creates at most capacity values; once all of
// them are checked out, Get blocks until one is Put back. Put never blocks:
// a value that does not fit in the available channel goes to a 1024-entry
// overflow channel, and is dropped if that is full too.
func NewFixed[T any](capacity uint, newFn func() T) Pool[T] {
	return &fixed[T]{
		available: make(chan T, capacity),
		all:       make(chan T, capacity),
		buf:       make(chan T, 1024),
		newFn:     newFn,
	}
}

func (p *fixed[T]) Get() T {
	select {
	case el := <-p.available:
		return el

	case el := <-p.buf:
		return el

	default:
	}

	var token T
	select {
	case p.all <- token: // reserves one of capacity creation slots
		return p.newFn()
	default:
	}

	select {
	case el := <-p.available:
		return el
	case el := <-p.buf:
		return el
	}
}

func (p *fixed[T]) Put(el T) {
	select {
	case p.available <- el:
	case p.buf <- el:
	default:
	}
}
