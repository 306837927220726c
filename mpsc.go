// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/mpsc/internal/ring"
	"code.hybscloud.com/spin"
)

// Queue is a CAS-based multi-producer single-consumer bounded queue.
//
// Producers reserve tickets by CAS on tail and publish the element into
// the ticket's slot with a release store. The single consumer drains the
// slot at head and advances head with a release store. A slot's nil/non-nil
// state is the only signal that a reserved ticket has been published.
//
// Producers keep a shared, possibly stale copy of head (headCache) and
// touch the consumer-owned head only when the cached view says the queue
// might be full.
//
// Memory: n slots (one pointer each) for capacity n
type Queue[T any] struct {
	_         pad
	tail      atomix.Uint64 // Producers CAS here
	_         pad
	headCache atomix.Uint64 // Producers' lagging view of head
	_         pad
	head      atomix.Uint64 // Consumer writes, producers read on cache miss
	_         pad
	slots     SlotStore[T]
	capacity  uint64
	_         pad
}

// New creates a queue backed by the default ring store.
// Capacity rounds up to the next power of 2.
// Panics if capacity < 1 or capacity > MaxCapacity.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("mpsc: capacity must be >= 1")
	}
	if capacity > MaxCapacity {
		panic("mpsc: capacity exceeds MaxCapacity")
	}
	return NewWithStore[T](ring.New[T](roundToPow2(capacity)))
}

// NewWithStore creates a queue over an existing slot store.
// The queue takes over the store; it must be empty and must not be
// accessed except through the queue afterwards.
// Panics if store is nil, its capacity is not a power of 2, or it holds
// any element.
func NewWithStore[T any](store SlotStore[T]) *Queue[T] {
	if store == nil {
		panic("mpsc: nil slot store")
	}
	n := store.Cap()
	if !isPow2(n) {
		panic("mpsc: slot store capacity must be a power of 2")
	}
	for i := uint64(0); i < uint64(n); i++ {
		if store.LoadPlain(i) != nil {
			panic("mpsc: slot store must be empty")
		}
	}
	return &Queue[T]{
		slots:    store,
		capacity: uint64(n),
	}
}

// Offer adds an element to the queue (multiple producers safe).
// Returns false if the queue is full. Panics if elem is nil.
//
// Offer retries until it wins a ticket or observes the queue full. It
// does not bound the number of retries under contention.
func (q *Queue[T]) Offer(elem *T) bool {
	if elem == nil {
		panic(ErrNilElement)
	}

	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		if !q.hasRoom(tail) {
			return false
		}
		if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
			q.slots.StoreRelease(q.slots.Index(tail), elem)
			return true
		}
		sw.Once()
	}
}

// TryOffer makes a single attempt to add an element (multiple producers safe).
// Panics if elem is nil.
//
// OfferFull is returned without attempting a CAS. OfferCASFailed means the
// queue had room but another producer took the ticket first.
func (q *Queue[T]) TryOffer(elem *T) OfferResult {
	if elem == nil {
		panic(ErrNilElement)
	}

	tail := q.tail.LoadAcquire()
	if !q.hasRoom(tail) {
		return OfferFull
	}
	if !q.tail.CompareAndSwapAcqRel(tail, tail+1) {
		return OfferCASFailed
	}
	q.slots.StoreRelease(q.slots.Index(tail), elem)
	return OfferSuccess
}

// Enqueue adds an element to the queue (multiple producers safe).
// Returns ErrWouldBlock if the queue is full. Panics if elem is nil.
func (q *Queue[T]) Enqueue(elem *T) error {
	if !q.Offer(elem) {
		return ErrWouldBlock
	}
	return nil
}

// hasRoom reports whether ticket tail lies within capacity of head.
//
// headCache is trusted while it admits tail. Otherwise head is read and,
// if it admits tail, published to headCache for other producers. A stale
// headCache only errs toward "might be full", never toward admitting a
// ticket whose slot the consumer has not cleared.
func (q *Queue[T]) hasRoom(tail uint64) bool {
	if tail < q.headCache.LoadAcquire()+q.capacity {
		return true
	}
	head := q.head.LoadAcquire()
	if tail >= head+q.capacity {
		return false
	}
	q.headCache.StoreRelease(head)
	return true
}

// Poll removes and returns the oldest element (single consumer only).
// Returns nil if the queue is empty or the oldest reserved ticket has not
// been published by its producer yet.
//
// Poll never skips an unpublished ticket, so elements are delivered in
// ticket order even when later tickets finish publishing first.
func (q *Queue[T]) Poll() *T {
	head := q.head.LoadRelaxed()
	i := q.slots.Index(head)
	elem := q.slots.LoadAcquire(i)
	if elem == nil {
		return nil
	}

	// The next producer for slot i holds ticket head+capacity and cannot
	// reserve it before observing the head store below.
	q.slots.StorePlain(i, nil)
	q.head.StoreRelease(head + 1)
	return elem
}

// Peek returns the oldest element without removing it (single consumer only).
// Returns nil under the same conditions as Poll.
func (q *Queue[T]) Peek() *T {
	return q.slots.LoadPlain(q.slots.Index(q.head.LoadRelaxed()))
}

// Dequeue removes and returns the oldest element (single consumer only).
// Returns (nil, ErrWouldBlock) if Poll would return nil.
func (q *Queue[T]) Dequeue() (*T, error) {
	elem := q.Poll()
	if elem == nil {
		return nil, ErrWouldBlock
	}
	return elem, nil
}

// Size returns the approximate number of reserved, undrained elements.
//
// head and tail are read separately, so under concurrency the result may
// lag either side. It is always within [0, Cap()]; when no operation is in
// flight it is exact.
func (q *Queue[T]) Size() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	n := tail - head
	if n > q.capacity {
		n = q.capacity
	}
	return int(n)
}

// IsEmpty reports whether Size is zero. Same approximation as Size.
func (q *Queue[T]) IsEmpty() bool {
	return q.Size() == 0
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}
