// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"code.hybscloud.com/mpsc"
	"code.hybscloud.com/mpsc/internal/bench"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func TestParseProducers(t *testing.T) {
	got, err := parseProducers("1, 2,,8")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 8}, got)

	for _, bad := range []string{"", ",", "0", "-1", "two"} {
		_, err := parseProducers(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestAppendSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	first := Session{SessionTime: "a", Results: []bench.Result{{Producers: 1, Consumed: 10}}}
	second := Session{SessionTime: "b", Results: []bench.Result{{Producers: 2, Consumed: 20}}}
	require.NoError(t, appendSession(path, first))
	require.NoError(t, appendSession(path, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var sessions []Session
	require.NoError(t, sonnet.Unmarshal(data, &sessions))
	require.Len(t, sessions, 2)
	require.Equal(t, "a", sessions[0].SessionTime)
	require.Equal(t, "b", sessions[1].SessionTime)
	require.Equal(t, int64(20), sessions[1].Results[0].Consumed)
}

func TestAppendSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	require.Error(t, appendSession(path, Session{}))
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Error(t, run(context.Background(), []string{"-producers", "0"}, &stdout, &stderr))
	require.Error(t, run(context.Background(), []string{"-iter", "0"}, &stdout, &stderr))
	require.Error(t, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
}

func TestRunWritesReport(t *testing.T) {
	if mpsc.RaceEnabled {
		t.Skip("skip: run uses concurrent producers")
	}

	path := filepath.Join(t.TempDir(), "out.json")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-cap", "16", "-producers", "1,2", "-duration", "5ms", "-iter", "1", "-json", path,
	}, &stdout, &stderr)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(stdout.String(), "\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var sessions []Session
	require.NoError(t, sonnet.Unmarshal(data, &sessions))
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Results, 2)
	for _, r := range sessions[0].Results {
		require.Equal(t, r.Produced, r.Consumed)
		require.Zero(t, r.OrderViolations)
	}
}

var errClosed = errors.New("closed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestProgressDisabled(t *testing.T) {
	var p *progress
	require.NoError(t, p.clear())
	require.NoError(t, p.step())
	require.NoError(t, p.finish())
}

func TestProgressRenders(t *testing.T) {
	var out bytes.Buffer
	p := newProgress(&out, 2)
	require.NoError(t, p.step())
	require.NoError(t, p.clear())
	require.NoError(t, p.step())
	require.NoError(t, p.finish())
	require.Contains(t, out.String(), "benchmarking")
}

func TestProgressReportsWriteError(t *testing.T) {
	p := newProgress(failingWriter{}, 2)
	err := p.step()
	if err == nil {
		err = p.finish()
	}
	require.ErrorIs(t, err, errClosed)
}
