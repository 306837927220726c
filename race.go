// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mpsc

// RaceEnabled is true when the race detector is active.
// Tests use it to skip concurrent runs: atomix loads and stores of head,
// tail and headCache are invisible to the detector, so producer reads of
// head are reported against the consumer's writes.
const RaceEnabled = true
