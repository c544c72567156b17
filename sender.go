/*
@Author: Lzww
@LastEditTime: 2025-9-17 23:02:51
@Description: Datagram sender feeding each round
@Language: Go 1.23.4
*/

package recvbench

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

// Sender writes the datagrams of a round, in one batch when the socket
// supports it.
type Sender struct {
	conn            net.PacketConn
	xconn           batchConn
	xconnWriteError error

	txqueue []ipv4.Message
}

// NewSender creates a sender over conn.
func NewSender(conn net.PacketConn) *Sender {
	return &Sender{conn: conn, xconn: newBatchConn(conn)}
}

// Batched reports whether writes still go through the batch path.
func (s *Sender) Batched() bool {
	return s.xconn != nil && s.xconnWriteError == nil
}

// Send writes count copies of payload to addr and returns how many were
// written.
func (s *Sender) Send(payload []byte, addr net.Addr, count int) (int, error) {
	s.txqueue = s.txqueue[:0]
	for i := 0; i < count; i++ {
		s.txqueue = append(s.txqueue, ipv4.Message{Buffers: [][]byte{payload}, Addr: addr})
	}
	return s.tx(s.txqueue)
}

func (s *Sender) tx(txqueue []ipv4.Message) (int, error) {
	if s.Batched() {
		return s.batchTx(txqueue)
	}
	return s.defaultTx(txqueue)
}

func (s *Sender) defaultTx(txqueue []ipv4.Message) (int, error) {
	nbytes, npkts := 0, 0
	var err error

	for k := range txqueue {
		var n int
		if n, err = s.conn.WriteTo(txqueue[k].Buffers[0], txqueue[k].Addr); err != nil {
			atomic.AddUint64(&DefaultStats.OutErrs, 1)
			err = errors.WithStack(err)
			break
		}
		nbytes += n
		npkts++
	}

	atomic.AddUint64(&DefaultStats.OutPkts, uint64(npkts))
	atomic.AddUint64(&DefaultStats.OutBytes, uint64(nbytes))
	return npkts, err
}

func (s *Sender) batchTx(txqueue []ipv4.Message) (int, error) {
	sent := 0
	for sent < len(txqueue) {
		n, err := s.xconn.WriteBatch(txqueue[sent:], 0)
		if err == nil && n == 0 {
			err = io.ErrShortWrite
		}
		if err != nil {
			// fall back to per-message writes for the rest of the run
			s.xconnWriteError = err
			atomic.AddUint64(&DefaultStats.OutBatchFallbacks, 1)
			m, err := s.defaultTx(txqueue[sent:])
			return sent + m, err
		}

		nbytes := 0
		for k := range txqueue[sent : sent+n] {
			nbytes += len(txqueue[sent+k].Buffers[0])
		}
		atomic.AddUint64(&DefaultStats.OutPkts, uint64(n))
		atomic.AddUint64(&DefaultStats.OutBytes, uint64(nbytes))
		sent += n
	}
	return sent, nil
}
