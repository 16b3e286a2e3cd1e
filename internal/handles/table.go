// Package handles maps opaque integer handles to live Go values so that the
// host can refer to an object without holding a Go pointer.
package handles

import (
	"errors"
	"sync"
)

// ErrClosed is returned when inserting into a closed table.
var ErrClosed = errors.New("handle table closed")

// ErrFull is returned when every slot is in use.
var ErrFull = errors.New("handle table full")

// Handle identifies a table entry. Zero is never issued.
// The low 32 bits hold the slot, the high 32 bits a generation counter so
// that a stale handle to a reused slot does not resolve. A slot's
// generation wraps only after 1<<32 reuses.
type Handle uint64

const (
	slotBits = 32
	slotMask = 1<<slotBits - 1
	maxSlots = slotMask
)

func (h Handle) slot() uint32       { return uint32(h & slotMask) }
func (h Handle) generation() uint32 { return uint32(h >> slotBits) }

func makeHandle(slot, gen uint32) Handle {
	return Handle(gen)<<slotBits | Handle(slot)
}

// Dropper is implemented by values that release resources when the table
// is closed with them still inside.
type Dropper interface {
	Drop()
}

type entry[T any] struct {
	value T
	gen   uint32
	valid bool
}

// Table is a concurrency-safe handle table.
type Table[T any] struct {
	entries  []entry[T]
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

// New creates an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]uint32, 0, 4),
	}
}

// Insert stores value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	if n := len(t.freeList); n > 0 {
		slot := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[slot-1]
		e.gen++
		e.value = value
		e.valid = true
		return makeHandle(slot, e.gen), nil
	}

	if uint64(len(t.entries)) >= maxSlots {
		return 0, ErrFull
	}
	t.entries = append(t.entries, entry[T]{value: value, valid: true})
	return makeHandle(uint32(len(t.entries)), 0), nil
}

func (t *Table[T]) lookup(h Handle) *entry[T] {
	slot := h.slot()
	if slot == 0 || int(slot) > len(t.entries) {
		return nil
	}
	e := &t.entries[slot-1]
	if !e.valid || e.gen != h.generation() {
		return nil
	}
	return e
}

// Get returns the value behind h.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e := t.lookup(h); e != nil {
		return e.value, true
	}
	var zero T
	return zero, false
}

// Remove deletes h and returns the value it held. The second result is false
// if h was unknown or already removed, so only one caller ever receives the
// value.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	e := t.lookup(h)
	if e == nil {
		return zero, false
	}
	value := e.value
	e.value = zero
	e.valid = false
	t.freeList = append(t.freeList, h.slot())
	return value, true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - len(t.freeList)
}

// Close drops every remaining value that implements Dropper and rejects
// further inserts.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	var live []T
	for i := range t.entries {
		if t.entries[i].valid {
			live = append(live, t.entries[i].value)
		}
	}
	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, v := range live {
		if d, ok := any(v).(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}
