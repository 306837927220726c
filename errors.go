// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock is returned by Enqueue when every slot is reserved and by
// Dequeue when the head slot holds no published element. Neither case is a
// failure: the caller retries later, typically behind an [iox.Backoff].
//
// Dequeue cannot tell an empty queue from one whose oldest reservation is
// still being published; both report ErrWouldBlock until the producer's
// store lands.
//
// It is [iox.ErrWouldBlock] itself, so errors.Is and the iox helpers
// recognize it without importing this package.
//
//	backoff := iox.Backoff{}
//	for q.Enqueue(req) != nil {
//	    backoff.Wait()
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrNilElement is the panic value raised when a nil element is offered.
// nil marks an empty slot and can never be enqueued.
var ErrNilElement = errors.New("mpsc: nil element")

// IsWouldBlock reports whether err is a full Enqueue or an empty Dequeue,
// possibly wrapped.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a retry signal rather than a failure.
// Every error this package returns is semantic.
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err is nil or a retry signal, i.e. whether
// an Enqueue or Dequeue loop should keep going.
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
