package recvbench

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	s := NewStats()
	require.Len(t, s.ToSlice(), len(s.Header()))

	atomic.AddUint64(&s.RecvMsgs, 7)
	atomic.AddUint64(&s.OutBatchFallbacks, 1)
	c := s.Copy()
	require.EqualValues(t, 7, c.RecvMsgs)
	require.EqualValues(t, 1, c.OutBatchFallbacks)

	row := s.ToSlice()
	for i, name := range s.Header() {
		if name == "RecvMsgs" {
			require.Equal(t, "7", row[i])
		}
	}

	s.Reset()
	require.Equal(t, *NewStats(), *s.Copy())
}
