// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bench runs timed throughput measurements against an mpsc queue.
//
// Each run starts Producers goroutines offering into one queue and a
// single consumer goroutine polling it. When the duration expires the
// producers stop, the consumer drains what was published, and the run
// reports counts, contention outcomes and per-producer order violations.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/mpsc"
	"golang.org/x/sync/errgroup"
)

// seqBits is the width of the per-producer sequence in an element value.
// The producer index occupies the bits above it.
const seqBits = 40

const seqMask = 1<<seqBits - 1

// Config describes one run.
type Config struct {
	Capacity  int
	Producers int
	Duration  time.Duration
}

// Validate reports whether c describes a runnable configuration.
func (c Config) Validate() error {
	switch {
	case c.Capacity < 1:
		return fmt.Errorf("bench: capacity %d < 1", c.Capacity)
	case c.Producers < 1:
		return fmt.Errorf("bench: producers %d < 1", c.Producers)
	case c.Producers > 1<<(64-seqBits):
		return fmt.Errorf("bench: producers %d exceeds %d", c.Producers, 1<<(64-seqBits))
	case c.Duration <= 0:
		return errors.New("bench: duration must be positive")
	}
	return nil
}

// Result is the outcome of one run.
type Result struct {
	Capacity        int           `json:"capacity"`
	Producers       int           `json:"producers"`
	Produced        int64         `json:"produced"`
	Consumed        int64         `json:"consumed"`
	FullRetries     int64         `json:"full_retries"`
	CASRetries      int64         `json:"cas_retries"`
	OrderViolations int64         `json:"order_violations"`
	Elapsed         time.Duration `json:"elapsed_ns"`
	Throughput      float64       `json:"throughput_msgs_sec"`
}

// Run performs one timed run. It returns early with ctx's error if ctx is
// cancelled before the configured duration expires.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	q := mpsc.New[uint64](cfg.Capacity)
	res := Result{Capacity: q.Cap(), Producers: cfg.Producers}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var produced, fullRetries, casRetries atomix.Int64
	var producersDone atomix.Bool

	start := time.Now()

	g, gctx := errgroup.WithContext(runCtx)
	for p := range cfg.Producers {
		g.Go(func() error {
			return produce(gctx, q.Producer(), uint64(p), &produced, &fullRetries, &casRetries)
		})
	}

	consumed := make(chan consumeStats, 1)
	go func() {
		consumed <- consume(q.Consumer(), cfg.Producers, &producersDone)
	}()

	err := g.Wait()
	producersDone.Store(true)
	stats := <-consumed

	res.Elapsed = time.Since(start)
	res.Produced = produced.Load()
	res.Consumed = stats.count
	res.OrderViolations = stats.violations
	res.FullRetries = fullRetries.Load()
	res.CASRetries = casRetries.Load()
	if res.Elapsed > 0 {
		res.Throughput = float64(res.Consumed) / res.Elapsed.Seconds()
	}

	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return res, err
}

// produce offers sequenced values until ctx is done.
func produce(ctx context.Context, p mpsc.Producer[uint64], id uint64, produced, fullRetries, casRetries *atomix.Int64) error {
	backoff := iox.Backoff{}
	var seq uint64
	for ctx.Err() == nil {
		v := id<<seqBits | seq&seqMask
		switch p.TryOffer(&v) {
		case mpsc.OfferSuccess:
			seq++
			produced.Add(1)
			backoff.Reset()
		case mpsc.OfferCASFailed:
			casRetries.Add(1)
		case mpsc.OfferFull:
			fullRetries.Add(1)
			backoff.Wait()
		}
	}
	return nil
}

type consumeStats struct {
	count      int64
	violations int64
}

// consume polls until the producers are done and the queue is drained.
func consume(c mpsc.Consumer[uint64], producers int, producersDone *atomix.Bool) consumeStats {
	var stats consumeStats
	next := make([]uint64, producers)
	backoff := iox.Backoff{}
	for {
		v := c.Poll()
		if v == nil {
			// Every Offer that returned has published its slot, so once
			// the producers are done an empty Poll means fully drained.
			if producersDone.Load() {
				if v = c.Poll(); v == nil {
					return stats
				}
			} else {
				backoff.Wait()
				continue
			}
		}
		backoff.Reset()

		id, seq := *v>>seqBits, *v&seqMask
		if seq != next[id] {
			stats.violations++
		}
		next[id] = seq + 1
		stats.count++
	}
}
