/*
@Author: Lzww
@LastEditTime: 2025-9-15 22:11:48
@Description: Slot pool backing batched datagram reception
@Language: Go 1.23.4
*/

package recvbench

import (
	"encoding/binary"
	"math"
	"net/netip"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MaxArenaSize bounds the byte arena of a single pool.
const MaxArenaSize uint64 = 1 << 32

type poolOptions struct {
	lockMemory bool
}

// PoolOption customizes NewSlotPool.
type PoolOption func(*poolOptions)

// WithMemoryLock pins the byte arena in RAM with mlock(2).
func WithMemoryLock() PoolOption {
	return func(o *poolOptions) {
		o.lockMemory = true
	}
}

// Slot is one reusable unit of receive state. Its buffers are fixed views
// into the pool arena and are never reallocated.
type Slot struct {
	pool    *SlotPool
	hdr     *mmsghdr
	addr    []byte // nil when the pool has no address capacity
	payload []byte
	control []byte // nil when the pool has no control capacity
}

// AddrLen returns the current address length field, bounded by the
// length requested for the round. The kernel reports the full address
// length even when it had to truncate the capture.
func (s *Slot) AddrLen() int {
	return min(int(s.hdr.Hdr.Namelen), s.pool.addrLen)
}

// Addr returns the captured peer address bytes.
func (s *Slot) Addr() []byte {
	return s.addr[:s.AddrLen()]
}

// ControlLen returns the current control length field, bounded by the
// length requested for the round.
func (s *Slot) ControlLen() int {
	return min(int(s.hdr.Hdr.Controllen), s.pool.controlLen)
}

// Control returns the captured ancillary data.
func (s *Slot) Control() []byte {
	return s.control[:s.ControlLen()]
}

// BytesReceived is only meaningful for slots returned by Receiver.Next.
func (s *Slot) BytesReceived() int {
	return int(s.hdr.Len)
}

// Payload returns the received datagram.
func (s *Slot) Payload() []byte {
	return s.payload[:min(s.BytesReceived(), len(s.payload))]
}

// Flags returns the msg_flags reported by the kernel for this slot.
func (s *Slot) Flags() int {
	return int(s.hdr.Hdr.Flags)
}

// Truncated reports whether the datagram was larger than the payload buffer.
func (s *Slot) Truncated() bool {
	return s.Flags()&unix.MSG_TRUNC != 0
}

// Peer decodes an IPv4 or IPv6 peer address from the address capture.
func (s *Slot) Peer() (netip.AddrPort, bool) {
	b := s.Addr()
	if len(b) < 4 {
		return netip.AddrPort{}, false
	}
	port := binary.BigEndian.Uint16(b[2:4])
	switch sockaddrFamily(b) {
	case unix.AF_INET:
		if len(b) < unix.SizeofSockaddrInet4 {
			return netip.AddrPort{}, false
		}
		return netip.AddrPortFrom(netip.AddrFrom4([4]byte(b[4:8])), port), true
	case unix.AF_INET6:
		if len(b) < unix.SizeofSockaddrInet6 {
			return netip.AddrPort{}, false
		}
		return netip.AddrPortFrom(netip.AddrFrom16([16]byte(b[8:24])), port), true
	}
	return netip.AddrPort{}, false
}

// SlotPool owns every buffer used by a Receiver. The message descriptors
// live in one array so they can be handed to recvmmsg directly, and all
// address, payload and control bytes live in a single arena laid out slot
// by slot as addr | payload | control.
type SlotPool struct {
	addrCap    int
	payloadCap int
	controlCap int

	// lengths requested by the last Prepare
	addrLen    int
	controlLen int

	hdrs  []mmsghdr
	iovs  []unix.Iovec
	arena []byte
	slots []Slot

	locked bool
	closed bool
}

func arenaSize(slotCount, addrCap, payloadCap, controlCap int) (int, error) {
	stride := addrCap + payloadCap + controlCap
	if stride < payloadCap || stride > math.MaxInt/slotCount {
		return 0, errors.Wrap(ErrAllocation, "arena size overflows")
	}
	size := stride * slotCount
	if uint64(size) > MaxArenaSize {
		return 0, errors.Wrapf(ErrAllocation, "arena size %d exceeds %d", size, MaxArenaSize)
	}
	return size, nil
}

// NewSlotPool allocates slotCount slots. addrCap and controlCap may be 0,
// in which case the corresponding capture is disabled.
func NewSlotPool(slotCount, addrCap, payloadCap, controlCap int, opts ...PoolOption) (*SlotPool, error) {
	if slotCount <= 0 {
		return nil, errors.Wrapf(ErrAllocation, "slot count %d", slotCount)
	}
	if payloadCap <= 0 {
		return nil, errors.Wrapf(ErrAllocation, "payload capacity %d", payloadCap)
	}
	if addrCap < 0 || controlCap < 0 || uint64(addrCap) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrAllocation, "address capacity %d, control capacity %d", addrCap, controlCap)
	}

	var o poolOptions
	for _, opt := range opts {
		opt(&o)
	}

	size, err := arenaSize(slotCount, addrCap, payloadCap, controlCap)
	if err != nil {
		return nil, err
	}

	p := &SlotPool{
		addrCap:    addrCap,
		payloadCap: payloadCap,
		controlCap: controlCap,
		addrLen:    addrCap,
		controlLen: controlCap,
		hdrs:       make([]mmsghdr, slotCount),
		iovs:       make([]unix.Iovec, slotCount),
		arena:      make([]byte, size),
		slots:      make([]Slot, slotCount),
	}

	off := 0
	for i := range p.slots {
		s := &p.slots[i]
		hdr := &p.hdrs[i].Hdr
		s.pool = p
		s.hdr = &p.hdrs[i]

		if addrCap > 0 {
			s.addr = p.arena[off : off+addrCap : off+addrCap]
			hdr.Name = &s.addr[0]
			hdr.Namelen = uint32(addrCap)
		}
		off += addrCap

		// exactly one io vector per slot
		s.payload = p.arena[off : off+payloadCap : off+payloadCap]
		iov := &p.iovs[i]
		iov.Base = &s.payload[0]
		iov.SetLen(payloadCap)
		hdr.Iov = iov
		hdr.SetIovlen(1)
		off += payloadCap

		if controlCap > 0 {
			s.control = p.arena[off : off+controlCap : off+controlCap]
			hdr.Control = &s.control[0]
			hdr.SetControllen(controlCap)
		}
		off += controlCap
	}

	if o.lockMemory {
		if err := unix.Mlock(p.arena); err != nil {
			return nil, errors.Wrapf(ErrAllocation, "mlock %d bytes: %v", len(p.arena), err)
		}
		p.locked = true
	}

	return p, nil
}

// Len returns the number of slots.
func (p *SlotPool) Len() int { return len(p.slots) }

func (p *SlotPool) AddrCap() int    { return p.addrCap }
func (p *SlotPool) PayloadCap() int { return p.payloadCap }
func (p *SlotPool) ControlCap() int { return p.controlCap }

// Slot returns the i-th slot.
func (p *SlotPool) Slot(i int) *Slot {
	return &p.slots[i]
}

// Prepare restores the address and control length fields of every slot.
// A negative value selects the full capacity, anything else is bounded by
// it. It must run before each receive since the kernel overwrites both
// fields with the number of bytes it actually wrote.
func (p *SlotPool) Prepare(addrLen, controlLen int) {
	if addrLen < 0 || addrLen > p.addrCap {
		addrLen = p.addrCap
	}
	if controlLen < 0 || controlLen > p.controlCap {
		controlLen = p.controlCap
	}
	p.addrLen = addrLen
	p.controlLen = controlLen

	for i := range p.hdrs {
		hdr := &p.hdrs[i].Hdr
		hdr.Namelen = uint32(addrLen)
		hdr.SetControllen(controlLen)
	}
}

// clamp maps a requested count onto [1, Len()]. Zero or anything larger
// than the pool selects every slot.
func (p *SlotPool) clamp(n int) int {
	if n <= 0 || n > len(p.slots) {
		return len(p.slots)
	}
	return n
}

// Close releases the pool memory. The pool and every Slot taken from it
// must not be used afterwards.
func (p *SlotPool) Close() error {
	if p.closed {
		return errors.WithStack(ErrPoolClosed)
	}
	p.closed = true

	var err error
	if p.locked {
		if e := unix.Munlock(p.arena); e != nil {
			err = errors.Wrap(e, "munlock")
		}
		p.locked = false
	}

	p.hdrs = nil
	p.iovs = nil
	p.arena = nil
	p.slots = nil
	return err
}
