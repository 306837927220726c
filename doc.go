// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mpsc provides a bounded multi-producer single-consumer queue.
//
// Many goroutines hand element references to exactly one consumer
// goroutine without locks. Producers arbitrate by CAS on a shared ticket
// counter; the consumer drains slots in ticket order.
//
// # Quick Start
//
//	q := mpsc.New[Request](1024)
//
//	// Any number of producers
//	if !q.Offer(req) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Exactly one consumer
//	if r := q.Poll(); r != nil {
//	    handle(r)
//	}
//
// # Operations
//
// Producer side (safe from any goroutine):
//
//	Offer(e)    → bool         // retries lost CAS races; false only when full
//	TryOffer(e) → OfferResult  // one attempt: OfferSuccess, OfferFull, OfferCASFailed
//	Enqueue(e)  → error        // Offer with ErrWouldBlock on full
//
// Consumer side (one goroutine only):
//
//	Poll()    → *T           // nil when the oldest ticket is not published
//	Peek()    → *T           // oldest element without removing it
//	Dequeue() → (*T, error)  // Poll with ErrWouldBlock on empty
//
// Offering nil panics with [ErrNilElement]: nil marks an empty slot.
//
// # Retry Policy
//
// No operation blocks. TryOffer separates "lost a race, retry now" from
// "queue is saturated, back off", so callers choose their own policy:
//
//	backoff := iox.Backoff{}
//	for {
//	    switch q.TryOffer(req) {
//	    case mpsc.OfferSuccess:
//	        return nil
//	    case mpsc.OfferCASFailed:
//	        continue
//	    case mpsc.OfferFull:
//	        backoff.Wait()
//	    }
//	}
//
// # Role Views
//
// Producer and Consumer return views restricted to one side of the queue.
// Both alias the same instance:
//
//	q := mpsc.New[Event](4096)
//	for _, s := range sources {
//	    go s.Run(q.Producer())
//	}
//	go aggregate(q.Consumer())
//
// # Capacity and Size
//
// Capacity rounds up to the next power of 2:
//
//	mpsc.New[int](3)     // Actual capacity: 4
//	mpsc.New[int](1000)  // Actual capacity: 1024
//
// Panic if capacity < 1. [NewWithStore] accepts a custom [SlotStore], whose
// capacity must already be a power of 2.
//
// Size reads head and tail separately and is approximate under
// concurrency. It is exact when no operation is in flight.
//
// # Ordering
//
// Tickets are granted in CAS order but producers may finish publishing in
// any order. Poll returns nil while the oldest ticket is unpublished, even
// if later tickets are ready; elements from one producer are therefore
// always consumed in the order that producer offered them.
//
// # Race Detection
//
// head, tail and headCache use [code.hybscloud.com/atomix] with explicit
// memory orderings, which the race detector does not observe. Concurrent
// tests are skipped when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions,
// and [golang.org/x/sys/cpu] for cache line padding.
package mpsc
