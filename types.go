// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

// Producer is the producer-side view of a queue.
//
// All methods are safe for concurrent use by any number of goroutines.
// Elements are passed by reference: the queue stores the pointer itself,
// so ownership of the pointee moves to the consumer.
type Producer[T any] interface {
	// Offer adds elem, retrying lost races internally.
	// Returns false if the queue is full. Panics if elem is nil.
	Offer(elem *T) bool

	// TryOffer makes exactly one reservation attempt.
	// Panics if elem is nil.
	TryOffer(elem *T) OfferResult

	// Enqueue is Offer reporting a full queue as ErrWouldBlock.
	Enqueue(elem *T) error
}

// Consumer is the consumer-side view of a queue.
//
// Only one goroutine may use a Consumer at a time. Calling consumer
// methods from more than one goroutine concurrently is undefined behavior.
type Consumer[T any] interface {
	// Poll removes and returns the oldest element, or nil if the oldest
	// reservation has not been published yet.
	Poll() *T

	// Peek returns the oldest element without removing it, or nil.
	Peek() *T

	// Dequeue is Poll reporting an empty queue as ErrWouldBlock.
	Dequeue() (*T, error)
}

// Bounded combines both sides of a fixed-capacity queue with its
// capacity accessors and role views.
//
// Producer methods are safe for any number of goroutines; consumer
// methods follow the single-consumer rule of Consumer.
type Bounded[T any] interface {
	Producer[T]
	Consumer[T]

	// Producer returns a view restricted to the producer methods.
	Producer() Producer[T]

	// Consumer returns a view restricted to the consumer methods.
	Consumer() Consumer[T]

	// Size returns the approximate number of queued elements, in [0, Cap()].
	Size() int

	// IsEmpty reports whether Size is zero.
	IsEmpty() bool

	// Cap returns the fixed capacity.
	Cap() int
}

// OfferResult is the outcome of a single TryOffer attempt.
type OfferResult uint8

const (
	// OfferSuccess means the element was reserved and published.
	OfferSuccess OfferResult = iota
	// OfferFull means the queue was observed full; no CAS was attempted.
	OfferFull
	// OfferCASFailed means another producer won the race for the ticket.
	// The queue was not full; retrying immediately is reasonable.
	OfferCASFailed
)

func (r OfferResult) String() string {
	switch r {
	case OfferSuccess:
		return "success"
	case OfferFull:
		return "full"
	case OfferCASFailed:
		return "cas-failed"
	default:
		return "unknown"
	}
}

// SlotStore is the fixed-size circular slot array backing a queue.
//
// A store maps monotonically increasing tickets onto Cap() slots and
// exposes the four slot accessors the queue protocol relies on:
//
//	StoreRelease / LoadAcquire  cross-goroutine publication of an element
//	StorePlain / LoadPlain      same-goroutine access by the consumer
//
// A nil slot is empty. Cap must be a positive power of two and must not
// change over the store's lifetime.
//
// Implementations may use stronger ordering than requested; they must
// not use weaker.
type SlotStore[T any] interface {
	Cap() int
	Index(ticket uint64) uint64
	LoadAcquire(i uint64) *T
	StoreRelease(i uint64, v *T)
	LoadPlain(i uint64) *T
	StorePlain(i uint64, v *T)
}
