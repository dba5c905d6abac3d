package mount

// List is the ordered, double-ended sequence of mount descriptors that
// make up a jail's filesystem assembly plan. Order is significant: the
// constructor applies descriptors front-to-back and a later entry can
// shadow an earlier one at the same destination, so List is deliberately
// not a set.
type List struct {
	points []*Point
}

// NewList returns an empty mount-descriptor sequence.
func NewList() *List {
	return &List{}
}

// Points returns the descriptors in application order. The returned
// slice aliases the list's backing storage and must not be mutated by
// the caller.
func (l *List) Points() []*Point {
	return l.points
}

// Len reports how many descriptors are in the sequence.
func (l *List) Len() int {
	return len(l.points)
}

// pushHead prepends an already-finalized descriptor.
func (l *List) pushHead(p *Point) {
	l.points = append([]*Point{p}, l.points...)
}

// pushTail appends an already-finalized descriptor.
func (l *List) pushTail(p *Point) {
	l.points = append(l.points, p)
}

// EnvLookup mirrors os.LookupEnv's signature; a nil lookup defaults to
// treating every SourceEnv/DestinationEnv as unset.
type EnvLookup func(name string) (value string, ok bool)

func (lookup EnvLookup) resolve(name string) (string, bool) {
	if lookup == nil {
		return "", false
	}
	return lookup(name)
}

// AddHead finalizes p (environment expansion, then the tri-state is-dir
// resolution) and prepends it to the sequence. It fails, leaving the
// list unchanged, if p.SourceEnv or p.DestinationEnv names a variable
// lookup does not resolve.
func (l *List) AddHead(p *Point, lookup EnvLookup) error {
	if err := finalize(p, lookup.resolve); err != nil {
		return err
	}
	l.pushHead(p)
	return nil
}

// AddTail finalizes p and appends it to the sequence; see AddHead.
func (l *List) AddTail(p *Point, lookup EnvLookup) error {
	if err := finalize(p, lookup.resolve); err != nil {
		return err
	}
	l.pushTail(p)
	return nil
}

// Describe renders one diagnostic line per descriptor, in application
// order, for startup and shutdown logging.
func (l *List) Describe() []string {
	lines := make([]string, 0, len(l.points))
	for _, p := range l.points {
		lines = append(lines, p.Describe())
	}
	return lines
}
