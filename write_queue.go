// write_queue.go - Deferred register writes, applied one per generated frame

package main

// RegisterWrite is a host register write. Bits 0-7 of Addr hold the
// register number, bits 8-9 the port.
type RegisterWrite struct {
	Addr uint32
	Data uint8
}

// Port returns the register port encoded in the address.
func (w RegisterWrite) Port() uint32 {
	return (w.Addr >> 8) & 3
}

// Reg returns the register number within the port.
func (w RegisterWrite) Reg() uint8 {
	return uint8(w.Addr & 0xFF)
}

// WriteQueue is an unbounded FIFO. A host that writes faster than it
// generates grows it without limit.
type WriteQueue struct {
	items []RegisterWrite
	head  int
}

func (q *WriteQueue) Enqueue(addr uint32, data uint8) {
	q.items = append(q.items, RegisterWrite{Addr: addr, Data: data})
}

// DrainOne pops the oldest write.
func (q *WriteQueue) DrainOne() (RegisterWrite, bool) {
	if q.head >= len(q.items) {
		return RegisterWrite{}, false
	}
	w := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > cap(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return w, true
}

func (q *WriteQueue) Len() int {
	return len(q.items) - q.head
}

// Clear drops every pending write.
func (q *WriteQueue) Clear() {
	q.items = nil
	q.head = 0
}
