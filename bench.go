/*
@Author: Lzww
@LastEditTime: 2025-9-20 22:48:19
@Description: Round driver: send a batch to ourselves, then receive it
@Language: Go 1.23.4
*/

package recvbench

import (
	"bytes"
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Payload is the datagram sent every round, terminator included.
var Payload = []byte("Hello world!\x00")

// RoundSample records one send+receive round.
type RoundSample struct {
	Index      int           `json:"index"`
	Sent       int           `json:"sent"`
	Received   int           `json:"received"`
	Mismatched int           `json:"mismatched"`
	Duration   time.Duration `json:"duration_ns"`
}

// Bench owns the slot pool and receiver of one run. The socket belongs to
// the caller.
type Bench struct {
	cfg     Config
	conn    *net.UDPConn
	pool    *SlotPool
	recv    *Receiver
	sender  *Sender
	history *RingBuffer[RoundSample]
	logger  *zap.Logger
}

func NewBench(cfg Config, conn *net.UDPConn, logger *zap.Logger) (*Bench, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []PoolOption
	if cfg.LockMemory {
		opts = append(opts, WithMemoryLock())
	}
	pool, err := NewSlotPool(cfg.BufferSize, cfg.AddrCapacity, cfg.PayloadCapacity, cfg.ControlCapacity, opts...)
	if err != nil {
		return nil, err
	}
	recv, err := NewReceiver(pool, cfg.Strategy())
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Bench{
		cfg:     cfg,
		conn:    conn,
		pool:    pool,
		recv:    recv,
		sender:  NewSender(conn),
		history: NewRingBuffer[RoundSample](cfg.History),
		logger:  logger,
	}, nil
}

// Close releases the slot pool.
func (b *Bench) Close() error {
	return b.pool.Close()
}

// Run executes every configured round. ctx is checked between rounds.
func (b *Bench) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		Strategy:   b.recv.Strategy().String(),
		BufferSize: b.cfg.BufferSize,
	}
	dst := b.conn.LocalAddr()

	b.logger.Info("run started",
		zap.Stringer("strategy", b.recv.Strategy()),
		zap.Int("buffer-size", b.cfg.BufferSize),
		zap.Int("round-count", b.cfg.RoundCount),
		zap.Stringer("addr", dst),
		zap.Bool("batched-send", b.sender.Batched()))

	start := time.Now()
	for i := 0; i < b.cfg.RoundCount; i++ {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			res.summarize(b.history)
			return res, errors.Wrapf(err, "stopped after %d rounds", i)
		}

		sample, err := b.round(i, dst)
		if err != nil {
			b.logger.Error("round failed", zap.Int("round", i), zap.Error(err))
			res.Elapsed = time.Since(start)
			res.summarize(b.history)
			return res, err
		}

		res.Rounds++
		res.Sent += sample.Sent
		res.Received += sample.Received
		res.Mismatched += sample.Mismatched
		b.history.Push(sample)
	}
	res.Elapsed = time.Since(start)
	res.summarize(b.history)

	b.logger.Info("run finished",
		zap.Int("rounds", res.Rounds),
		zap.Int("received", res.Received),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (b *Bench) round(i int, dst net.Addr) (RoundSample, error) {
	sample := RoundSample{Index: i}
	start := time.Now()

	sent, err := b.sender.Send(Payload, dst, b.cfg.BufferSize)
	sample.Sent = sent
	if err != nil {
		return sample, errors.Wrapf(err, "round %d: send", i)
	}

	b.recv.Prepare(b.cfg.AddrLen, b.cfg.ControlLen)
	if _, err := b.recv.Receive(b.conn, b.cfg.BufferSize); err != nil {
		return sample, errors.Wrapf(err, "round %d", i)
	}

	b.recv.ForEach(func(s *Slot) bool {
		sample.Received++
		if b.cfg.Verify && !bytes.Equal(s.Payload(), Payload) {
			sample.Mismatched++
		}
		return true
	})
	sample.Duration = time.Since(start)

	atomic.AddUint64(&DefaultStats.Rounds, 1)
	if sample.Received < sample.Sent {
		atomic.AddUint64(&DefaultStats.RoundsShort, 1)
	}
	if sample.Mismatched > 0 {
		atomic.AddUint64(&DefaultStats.VerifyFailures, uint64(sample.Mismatched))
	}

	b.logger.Debug("round",
		zap.Int("round", i),
		zap.Int("sent", sample.Sent),
		zap.Int("received", sample.Received),
		zap.Duration("duration", sample.Duration))
	return sample, nil
}
