/*
@Author: Lzww
@LastEditTime: 2025-9-16 23:05:19
@Description: Batch receiver over a slot pool
@Language: Go 1.23.4
*/

package recvbench

import (
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"
)

// Strategy selects how a Receiver fills its slots.
type Strategy uint8

const (
	// BatchedSyscall fills up to n slots with a single recvmmsg(2) call.
	BatchedSyscall Strategy = iota
	// PerMessageLoop fills slots one recvmsg(2) call at a time.
	PerMessageLoop
)

func (s Strategy) String() string {
	switch s {
	case BatchedSyscall:
		return "recvmmsg"
	case PerMessageLoop:
		return "recvmsg"
	}
	return "unknown"
}

// ParseStrategy accepts the syscall name or the strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "recvmmsg", "batched", "batch":
		return BatchedSyscall, nil
	case "recvmsg", "per-message", "loop":
		return PerMessageLoop, nil
	}
	return 0, errors.Wrapf(ErrInvalidStrategy, "%q", name)
}

type recvFunc func(fd int, msgs []mmsghdr) (int, error)

// batchedRecv asks the kernel for every message in one call. An empty
// non-blocking socket is a successful receive of nothing.
func batchedRecv(fd int, msgs []mmsghdr) (int, error) {
	atomic.AddUint64(&DefaultStats.RecvCalls, 1)
	n, err := recvmmsgFunc(fd, msgs, 0)
	if err != nil {
		if isWouldBlock(err) {
			atomic.AddUint64(&DefaultStats.RecvWouldBlock, 1)
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// loopRecv issues one recvmsg per slot. Only a failure of the first call is
// reported; a later failure ends the loop with the slots filled so far.
func loopRecv(fd int, msgs []mmsghdr) (int, error) {
	i := 0
	for ; i < len(msgs); i++ {
		atomic.AddUint64(&DefaultStats.RecvCalls, 1)
		n, err := recvmsgFunc(fd, &msgs[i].Hdr, 0)
		if err != nil {
			if isWouldBlock(err) {
				atomic.AddUint64(&DefaultStats.RecvWouldBlock, 1)
				break
			}
			if i == 0 {
				return 0, err
			}
			atomic.AddUint64(&DefaultStats.RecvPartial, 1)
			break
		}
		msgs[i].Len = uint32(n)
	}
	return i, nil
}

// Receiver drives one SlotPool through receive rounds and hands out the
// filled slots in order. It is not safe for concurrent use, and must not
// outlive its pool.
type Receiver struct {
	pool     *SlotPool
	strategy Strategy
	recv     recvFunc

	cursor int
	unread int
}

// NewReceiver binds pool to strategy for the lifetime of the receiver.
func NewReceiver(pool *SlotPool, strategy Strategy) (*Receiver, error) {
	if pool == nil {
		return nil, errors.New("nil slot pool")
	}

	r := &Receiver{pool: pool, strategy: strategy}
	switch strategy {
	case BatchedSyscall:
		r.recv = batchedRecv
	case PerMessageLoop:
		r.recv = loopRecv
	default:
		return nil, errors.Wrapf(ErrInvalidStrategy, "%d", strategy)
	}
	return r, nil
}

func (r *Receiver) Pool() *SlotPool    { return r.pool }
func (r *Receiver) Strategy() Strategy { return r.strategy }

// Unread returns how many slots the last successful receive filled.
func (r *Receiver) Unread() int { return r.unread }

// Remaining returns how many filled slots Next has not handed out yet.
func (r *Receiver) Remaining() int { return r.unread - r.cursor }

// Prepare resets the pool length fields for the next round. See
// SlotPool.Prepare.
func (r *Receiver) Prepare(addrLen, controlLen int) {
	r.pool.Prepare(addrLen, controlLen)
}

// Receive reads up to n datagrams from conn without waiting. n of 0 or
// above the slot count selects every slot. The socket must already be in
// non-blocking mode, which is always the case for sockets from package net.
func (r *Receiver) Receive(conn syscall.Conn, n int) (int, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return 0, errors.Wrap(err, "syscall conn")
	}

	var (
		count int
		rerr  error
	)
	err = rc.Read(func(fd uintptr) bool {
		count, rerr = r.ReceiveFd(int(fd), n)
		return true
	})
	if err != nil {
		atomic.AddUint64(&DefaultStats.RecvErrs, 1)
		return 0, &ReceiveError{Strategy: r.strategy, Err: err}
	}
	return count, rerr
}

// ReceiveFd is Receive on a raw descriptor.
func (r *Receiver) ReceiveFd(fd int, n int) (int, error) {
	if r.pool.closed {
		return 0, errors.WithStack(ErrPoolClosed)
	}

	msgs := r.pool.hdrs[:r.pool.clamp(n)]
	got, err := r.recv(fd, msgs)
	if err != nil {
		atomic.AddUint64(&DefaultStats.RecvErrs, 1)
		return 0, &ReceiveError{Strategy: r.strategy, Err: err}
	}

	var nbytes uint64
	for k := range msgs[:got] {
		nbytes += uint64(msgs[k].Len)
	}
	atomic.AddUint64(&DefaultStats.RecvMsgs, uint64(got))
	atomic.AddUint64(&DefaultStats.RecvBytes, nbytes)

	r.unread = got
	r.cursor = 0
	return got, nil
}

// Next returns the next filled slot of the current round, or false once
// every slot of the round has been handed out.
func (r *Receiver) Next() (*Slot, bool) {
	if r.cursor >= r.unread || r.pool.closed {
		return nil, false
	}
	s := &r.pool.slots[r.cursor]
	r.cursor++
	return s, true
}

// ForEach drains the remaining filled slots. Returning false from fn stops
// early; the stopping slot counts as read.
func (r *Receiver) ForEach(fn func(*Slot) bool) {
	for s, ok := r.Next(); ok; s, ok = r.Next() {
		if !fn(s) {
			return
		}
	}
}
