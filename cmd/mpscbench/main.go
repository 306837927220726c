// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command mpscbench measures mpsc queue throughput for a range of producer
// counts and optionally appends the session to a JSON report file.
//
// Usage:
//
//	mpscbench -cap 1024 -producers 1,2,4,8 -duration 2s -iter 3 -json results.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"code.hybscloud.com/mpsc/internal/bench"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sugawarayuuta/sonnet"
)

// SystemInfo describes the host a session ran on.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	GOMAXPROCS  int     `json:"gomaxprocs"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	GoVersion   string  `json:"go_version"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// Session is one invocation's results.
type Session struct {
	SessionTime string         `json:"session_time"`
	SystemInfo  SystemInfo     `json:"system_info"`
	Results     []bench.Result `json:"results"`
}

// progress is a progress bar that reports write failures on its output.
// A nil *progress is disabled.
type progress struct {
	bar *progressbar.ProgressBar
	out *errWriter
}

func newProgress(w io.Writer, total int) *progress {
	out := &errWriter{w: w}
	return &progress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
		out: out,
	}
}

func (p *progress) clear() error {
	if p == nil {
		return nil
	}
	return p.check(p.bar.Clear())
}

func (p *progress) step() error {
	if p == nil {
		return nil
	}
	return p.check(p.bar.Add(1))
}

func (p *progress) finish() error {
	if p == nil {
		return nil
	}
	return p.check(p.bar.Finish())
}

func (p *progress) check(err error) error {
	if err == nil {
		err = p.out.err
	}
	if err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	return nil
}

// errWriter remembers the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	if err != nil {
		e.err = err
	}
	return n, err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "mpscbench:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mpscbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	capacity := fs.Int("cap", 1024, "Queue capacity (rounded up to a power of 2)")
	producersFlag := fs.String("producers", "1,2,4,8", "Comma-separated producer counts")
	duration := fs.Duration("duration", 2*time.Second, "Duration of each run")
	iterations := fs.Int("iter", 3, "Runs per producer count")
	jsonPath := fs.String("json", "", "Append the session to this JSON file")
	showProgress := fs.Bool("progress", false, "Display a progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}

	producers, err := parseProducers(*producersFlag)
	if err != nil {
		return err
	}
	if *iterations < 1 {
		return fmt.Errorf("iter %d < 1", *iterations)
	}

	var bar *progress
	if *showProgress {
		bar = newProgress(stderr, len(producers) * *iterations)
	}

	session := Session{
		SessionTime: time.Now().Format(time.RFC3339),
		SystemInfo:  gatherSystemInfo(),
	}

	for _, p := range producers {
		cfg := bench.Config{Capacity: *capacity, Producers: p, Duration: *duration}
		for i := 1; i <= *iterations; i++ {
			runtime.GC()
			res, err := bench.Run(ctx, cfg)
			if err != nil {
				return err
			}
			session.Results = append(session.Results, res)

			if err := bar.clear(); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "producers=%-4d iter=%d/%d produced=%d consumed=%d full=%d cas=%d order_violations=%d throughput=%.0f msg/s\n",
				p, i, *iterations, res.Produced, res.Consumed, res.FullRetries, res.CASRetries, res.OrderViolations, res.Throughput)
			if err := bar.step(); err != nil {
				return err
			}
		}
	}
	if err := bar.finish(); err != nil {
		return err
	}

	if *jsonPath != "" {
		if err := appendSession(*jsonPath, session); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote results to %s\n", *jsonPath)
	}
	return nil
}

// parseProducers parses a comma-separated list of positive producer counts.
func parseProducers(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("producers: %w", err)
		}
		if n < 1 {
			return nil, fmt.Errorf("producers: %d < 1", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("producers: empty list")
	}
	return out, nil
}

// appendSession adds session to the JSON array stored at path, creating the
// file if it does not exist.
func appendSession(path string, session Session) error {
	var sessions []Session
	data, err := os.ReadFile(path)
	switch {
	case err == nil && len(data) > 0:
		if err := sonnet.Unmarshal(data, &sessions); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return err
	}

	sessions = append(sessions, session)
	data, err = sonnet.Marshal(sessions)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// gatherSystemInfo collects basic CPU and memory details. Fields the host
// does not report are left empty.
func gatherSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		GOARCH:     runtime.GOARCH,
		GoVersion:  runtime.Version(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}
