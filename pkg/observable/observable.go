// Package observable holds a single value that one owner publishes and any
// number of readers observe.
package observable

import "sync"

// Reader is the read-only side handed out to consumers.
type Reader[T any] interface {
	Get() T
	Subscribe() (<-chan T, func())
}

// Value is safe for concurrent use. Subscribers get the current value on
// subscribe and then every later value; a slow subscriber only ever sees
// the latest one.
type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs map[int]chan T
	next int
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[int]chan T)}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

func (v *Value[T]) Publish(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = val
	for _, ch := range v.subs {
		offer(ch, val)
	}
}

// Update applies fn to the current value and publishes the result atomically.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = fn(v.cur)
	for _, ch := range v.subs {
		offer(ch, v.cur)
	}
	return v.cur
}

// Subscribe returns a channel primed with the current value and a cancel
// func that closes it. Cancel is idempotent.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.next
	v.next++
	ch := make(chan T, 1)
	ch <- v.cur
	v.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
			close(ch)
		})
	}
}

func offer[T any](ch chan T, val T) {
	select {
	case ch <- val:
	default:
		// drop the stale value and replace it
		select {
		case <-ch:
		default:
		}
		ch <- val
	}
}
