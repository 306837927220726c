// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides the default slot store for mpsc queues.
//
// A Ring is a power-of-two array of pointer slots. Tickets wrap onto slots
// by masking. A nil slot is empty.
//
// Slots are sync/atomic pointers so the garbage collector keeps queued
// elements alive. Go exposes no relaxed or plain access for atomic
// pointers, so the plain accessors are sequentially consistent; that is
// stronger than the contract requires and never weaker.
package ring

import "sync/atomic"

// Ring is a fixed-capacity circular array of *T slots.
type Ring[T any] struct {
	slots []atomic.Pointer[T]
	mask  uint64
}

// New creates a ring with exactly capacity slots.
// Panics if capacity is not a positive power of 2.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		panic("ring: capacity must be a power of 2")
	}
	return &Ring[T]{
		slots: make([]atomic.Pointer[T], capacity),
		mask:  uint64(capacity - 1),
	}
}

// Cap returns the number of slots.
func (r *Ring[T]) Cap() int {
	return int(r.mask + 1)
}

// Index maps a ticket onto its slot.
func (r *Ring[T]) Index(ticket uint64) uint64 {
	return ticket & r.mask
}

// LoadAcquire reads slot i, observing everything written before the
// matching StoreRelease.
func (r *Ring[T]) LoadAcquire(i uint64) *T {
	return r.slots[i].Load()
}

// StoreRelease publishes v into slot i.
func (r *Ring[T]) StoreRelease(i uint64, v *T) {
	r.slots[i].Store(v)
}

// LoadPlain reads slot i for the goroutine that last wrote it.
func (r *Ring[T]) LoadPlain(i uint64) *T {
	return r.slots[i].Load()
}

// StorePlain writes slot i without publishing it to other goroutines.
func (r *Ring[T]) StorePlain(i uint64, v *T) {
	r.slots[i].Store(v)
}
