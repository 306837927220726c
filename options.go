// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpsc

import (
	"math"

	"golang.org/x/sys/cpu"
)

// MaxCapacity is the largest capacity New accepts: the largest power of 2
// representable as an int.
const MaxCapacity = math.MaxInt>>1 + 1

// roundToPow2 rounds n up to the next power of 2.
// n must not exceed MaxCapacity.
func roundToPow2(n int) int {
	if n < 2 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// isPow2 reports whether n is a positive power of 2.
func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// pad is cache line padding to prevent false sharing.
// Sized for the target architecture (64 bytes on amd64, 128 on arm64).
type pad = cpu.CacheLinePad
