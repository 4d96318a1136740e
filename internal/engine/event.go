package engine

type subscription[T any] struct {
	id int
	fn func(T)
}

// EventWithArg fans a value out to its listeners in subscription order.
// Listeners may unsubscribe while the event is being delivered; the change
// takes effect on the next Invoke.
type EventWithArg[T any] struct {
	nextID int
	subs   []subscription[T]
}

// AddListener subscribes fn and returns the function that removes it again.
// A nil fn is ignored.
func (e *EventWithArg[T]) AddListener(fn func(T)) (remove func()) {
	if fn == nil {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription[T]{id: id, fn: fn})
	return func() { e.remove(id) }
}

func (e *EventWithArg[T]) remove(id int) {
	for i, s := range e.subs {
		if s.id == id {
			// copy so a delivery in progress keeps its slice intact
			subs := make([]subscription[T], 0, len(e.subs)-1)
			subs = append(subs, e.subs[:i]...)
			e.subs = append(subs, e.subs[i+1:]...)
			return
		}
	}
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, s := range e.subs {
		s.fn(arg)
	}
}

func (e *EventWithArg[T]) Len() int {
	return len(e.subs)
}

func (e *EventWithArg[T]) Clear() {
	e.subs = nil
}

// Event is a notification without a payload.
type Event struct {
	inner EventWithArg[struct{}]
}

func (e *Event) AddListener(fn func()) (remove func()) {
	if fn == nil {
		return func() {}
	}
	return e.inner.AddListener(func(struct{}) { fn() })
}

func (e *Event) Invoke()  { e.inner.Invoke(struct{}{}) }
func (e *Event) Len() int { return e.inner.Len() }
func (e *Event) Clear()   { e.inner.Clear() }
