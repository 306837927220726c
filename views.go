// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
	_ Bounded[int]  = (*Queue[int])(nil)
)

// Producer returns a producer-only view of q.
//
// The view shares q's state; it holds no state of its own and can be
// handed to any number of goroutines. It cannot be converted back to the
// queue or to a Consumer.
func (q *Queue[T]) Producer() Producer[T] {
	return producerView[T]{q: q}
}

// Consumer returns a consumer-only view of q.
//
// The view shares q's state. At most one goroutine may use consumer
// methods at a time, whether through the view or through q directly.
func (q *Queue[T]) Consumer() Consumer[T] {
	return consumerView[T]{q: q}
}

type producerView[T any] struct {
	q *Queue[T]
}

func (v producerView[T]) Offer(elem *T) bool { return v.q.Offer(elem) }
func (v producerView[T]) TryOffer(elem *T) OfferResult { return v.q.TryOffer(elem) }
func (v producerView[T]) Enqueue(elem *T) error { return v.q.Enqueue(elem) }

type consumerView[T any] struct {
	q *Queue[T]
}

func (v consumerView[T]) Poll() *T { return v.q.Poll() }
func (v consumerView[T]) Peek() *T { return v.q.Peek() }
func (v consumerView[T]) Dequeue() (*T, error) { return v.q.Dequeue() }
