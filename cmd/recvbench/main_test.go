//go:build linux

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	recvbench "recv-bench"
)

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-h"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "usage: recvbench [OPTIONS] <port>")

	stderr.Reset()
	require.Equal(t, 1, run(nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), "usage:")

	stderr.Reset()
	require.Equal(t, 1, run([]string{"-b", "0", "0"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "buffer size")

	require.Equal(t, 1, run([]string{"notaport"}, &stdout, &stderr))
	require.Equal(t, 1, run([]string{"-strategy", "epoll", "0"}, &stdout, &stderr))
}

func TestRun_Text(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-b", "4", "-c", "2", "-m", "-log-level", "error", "0"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Equal(t, "Using recvmsg()", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "Elapsed time: "), lines[1])
}

func TestRun_JSONWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte("buffer-size = 8\nround-count = 3\nverify = true\n[log]\nlevel = \"error\"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", path, "-c", "2", "-strategy", "batched", "-json", "-stats"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var res recvbench.Result
	require.NoError(t, sonnet.Unmarshal(stdout.Bytes(), &res))
	require.Equal(t, "recvmmsg", res.Strategy)
	require.Equal(t, 8, res.BufferSize)
	require.Equal(t, 2, res.Rounds)
	require.Equal(t, 16, res.Sent)
	require.Zero(t, res.Mismatched)
	require.NotNil(t, res.Stats)
}
