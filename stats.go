/*
@Author: Lzww
@LastEditTime: 2025-9-17 21:30:44
@Description: Statistics collection for receive rounds
@Language: Go 1.23.4
*/

package recvbench

import (
	"fmt"
	"sync/atomic"
)

// Stats contains the counters updated by the receiver, the sender and the
// round driver. All fields must be accessed atomically.
type Stats struct {
	// Receive path
	RecvCalls      uint64 // underlying recvmmsg/recvmsg calls
	RecvMsgs       uint64 // datagrams placed into slots
	RecvBytes      uint64 // payload bytes placed into slots
	RecvWouldBlock uint64 // calls that found the socket empty
	RecvPartial    uint64 // per-message loops cut short by a later failure
	RecvErrs       uint64 // receive calls surfaced as errors

	// Send path
	OutPkts           uint64 // datagrams sent
	OutBytes          uint64 // bytes sent
	OutErrs           uint64 // send failures
	OutBatchFallbacks uint64 // batch writes that fell back to per-message writes

	// Driver
	Rounds         uint64 // completed rounds
	RoundsShort    uint64 // rounds that received fewer datagrams than were sent
	VerifyFailures uint64 // slots whose payload did not match what was sent
}

// NewStats creates a zeroed Stats.
func NewStats() *Stats {
	return new(Stats)
}

// Header returns the column names in ToSlice order.
func (s *Stats) Header() []string {
	return []string{
		"RecvCalls",
		"RecvMsgs",
		"RecvBytes",
		"RecvWouldBlock",
		"RecvPartial",
		"RecvErrs",
		"OutPkts",
		"OutBytes",
		"OutErrs",
		"OutBatchFallbacks",
		"Rounds",
		"RoundsShort",
		"VerifyFailures",
	}
}

// ToSlice renders a consistent snapshot of the counters.
func (s *Stats) ToSlice() []string {
	st := s.Copy()
	return []string{
		fmt.Sprint(st.RecvCalls),
		fmt.Sprint(st.RecvMsgs),
		fmt.Sprint(st.RecvBytes),
		fmt.Sprint(st.RecvWouldBlock),
		fmt.Sprint(st.RecvPartial),
		fmt.Sprint(st.RecvErrs),
		fmt.Sprint(st.OutPkts),
		fmt.Sprint(st.OutBytes),
		fmt.Sprint(st.OutErrs),
		fmt.Sprint(st.OutBatchFallbacks),
		fmt.Sprint(st.Rounds),
		fmt.Sprint(st.RoundsShort),
		fmt.Sprint(st.VerifyFailures),
	}
}

// Copy takes an atomic snapshot of every counter.
func (s *Stats) Copy() *Stats {
	d := NewStats()
	d.RecvCalls = atomic.LoadUint64(&s.RecvCalls)
	d.RecvMsgs = atomic.LoadUint64(&s.RecvMsgs)
	d.RecvBytes = atomic.LoadUint64(&s.RecvBytes)
	d.RecvWouldBlock = atomic.LoadUint64(&s.RecvWouldBlock)
	d.RecvPartial = atomic.LoadUint64(&s.RecvPartial)
	d.RecvErrs = atomic.LoadUint64(&s.RecvErrs)
	d.OutPkts = atomic.LoadUint64(&s.OutPkts)
	d.OutBytes = atomic.LoadUint64(&s.OutBytes)
	d.OutErrs = atomic.LoadUint64(&s.OutErrs)
	d.OutBatchFallbacks = atomic.LoadUint64(&s.OutBatchFallbacks)
	d.Rounds = atomic.LoadUint64(&s.Rounds)
	d.RoundsShort = atomic.LoadUint64(&s.RoundsShort)
	d.VerifyFailures = atomic.LoadUint64(&s.VerifyFailures)
	return d
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.RecvCalls, 0)
	atomic.StoreUint64(&s.RecvMsgs, 0)
	atomic.StoreUint64(&s.RecvBytes, 0)
	atomic.StoreUint64(&s.RecvWouldBlock, 0)
	atomic.StoreUint64(&s.RecvPartial, 0)
	atomic.StoreUint64(&s.RecvErrs, 0)
	atomic.StoreUint64(&s.OutPkts, 0)
	atomic.StoreUint64(&s.OutBytes, 0)
	atomic.StoreUint64(&s.OutErrs, 0)
	atomic.StoreUint64(&s.OutBatchFallbacks, 0)
	atomic.StoreUint64(&s.Rounds, 0)
	atomic.StoreUint64(&s.RoundsShort, 0)
	atomic.StoreUint64(&s.VerifyFailures, 0)
}

// DefaultStats is the process-wide instance used by the package.
var DefaultStats *Stats

func init() {
	DefaultStats = NewStats()
}
