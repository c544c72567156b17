package recvbench

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func TestFormatElapsed(t *testing.T) {
	require.Equal(t, "Elapsed time: 1.500007 ms", FormatElapsed(1500*time.Microsecond+7))
	require.Equal(t, "Elapsed time: 0.000000 ms", FormatElapsed(0))
	require.Equal(t, "Elapsed time: 2041.000001 ms", FormatElapsed(2041*time.Millisecond+1))
}

func TestBanner(t *testing.T) {
	require.Equal(t, "Using recvmmsg()", Banner(BatchedSyscall))
	require.Equal(t, "Using recvmsg()", Banner(PerMessageLoop))
}

func TestResult_summarize(t *testing.T) {
	history := NewRingBuffer[RoundSample](3)
	for i, d := range []time.Duration{9, 4, 2, 6} {
		history.Push(RoundSample{Index: i, Duration: d})
	}

	var r Result
	r.summarize(history)
	require.Equal(t, WindowSummary{Rounds: 3, Min: 2, Max: 6, Mean: 4}, r.Window)

	r.summarize(NewRingBuffer[RoundSample](3))
	require.Equal(t, WindowSummary{}, r.Window)
}

func TestResult_WriteText(t *testing.T) {
	r := &Result{Rounds: 2, Sent: 8, Received: 8, Elapsed: 3 * time.Millisecond}

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	require.Equal(t, "Elapsed time: 3.000000 ms\n", buf.String())

	buf.Reset()
	r.Stats = NewStats()
	r.Stats.RecvMsgs = 8
	require.NoError(t, r.WriteText(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	require.Contains(t, lines[1], "Received")
	require.Contains(t, lines[4], "RecvMsgs")
}

func TestResult_WriteJSON(t *testing.T) {
	r := &Result{
		Strategy:   "recvmsg",
		BufferSize: 4,
		Rounds:     1,
		Sent:       4,
		Received:   3,
		Elapsed:    time.Millisecond,
		Window:     WindowSummary{Rounds: 1, Min: 5, Max: 5, Mean: 5},
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var got Result
	require.NoError(t, sonnet.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, *r, got)
	require.Contains(t, buf.String(), `"elapsed_ns":1000000`)
	require.NotContains(t, buf.String(), `"stats"`)
}
