package order

// Observable holds a current value and pushes every change to subscribers.
//
// Delivery is synchronous and in subscription order. Storing a value equal
// to the current one (per the equality func) does not notify.
//
// Only the owning State stores values. Hosts read and subscribe.
type Observable[T any] struct {
	val    T
	equal  func(a, b T) bool
	subs   []subscription[T]
	nextID int
}

type subscription[T any] struct {
	id int
	fn func(T)
}

func newObservable[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{val: initial, equal: equal}
}

// Value returns the current value.
func (o *Observable[T]) Value() T { return o.val }

// Subscribe registers fn, calls it once with the current value, and returns
// a func that removes the subscription. Calling the returned func more than
// once is a no-op. A nil fn is ignored.
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscription[T]{id: id, fn: fn})
	fn(o.val)
	return func() { o.remove(id) }
}

// Subscribers returns the number of registered subscribers.
func (o *Observable[T]) Subscribers() int { return len(o.subs) }

func (o *Observable[T]) remove(id int) {
	for i, s := range o.subs {
		if s.id == id {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}

// store replaces the value without notifying and reports whether it changed.
func (o *Observable[T]) store(v T) bool {
	if o.equal != nil && o.equal(o.val, v) {
		return false
	}
	o.val = v
	return true
}

// publish delivers the current value. It works on a snapshot of the
// subscriber list so callbacks may unsubscribe themselves.
func (o *Observable[T]) publish() {
	subs := append([]subscription[T](nil), o.subs...)
	for _, s := range subs {
		s.fn(o.val)
	}
}
