/*
@Author: Lzww
@LastEditTime: 2025-9-19 22:35:02
@Description: Benchmark configuration
@Language: Go 1.23.4
*/

package recvbench

import (
	"net"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"recv-bench/logutil"
)

type Config struct {
	// Loopback UDP port to bind; 0 picks an ephemeral port
	Port int `toml:"port"`

	// Round settings
	BufferSize int  `toml:"buffer-size"` // Slots received per round, also datagrams sent per round
	RoundCount int  `toml:"round-count"` // Number of send+receive rounds
	UseRecvmsg bool `toml:"use-recvmsg"` // PerMessageLoop instead of BatchedSyscall

	// Slot capacities
	AddrCapacity    int `toml:"addr-capacity"`
	PayloadCapacity int `toml:"payload-capacity"`
	ControlCapacity int `toml:"control-capacity"`

	// Per-round length overrides, negative means full capacity
	AddrLen    int `toml:"addr-len"`
	ControlLen int `toml:"control-len"`

	LockMemory bool `toml:"lock-memory"` // mlock the slot arena
	Verify     bool `toml:"verify"`      // compare every payload with what was sent
	History    int  `toml:"history"`     // Round samples kept for the report

	Log logutil.Config `toml:"log"`
}

func DefaultConfig() Config {
	return Config{
		BufferSize:      1,
		RoundCount:      1,
		AddrCapacity:    unix.SizeofSockaddrInet4,
		PayloadCapacity: 512,
		ControlCapacity: 0,
		AddrLen:         -1,
		ControlLen:      -1,
		History:         64,
		Log:             logutil.DefaultConfig(),
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

func (c *Config) Strategy() Strategy {
	if c.UseRecvmsg {
		return PerMessageLoop
	}
	return BatchedSyscall
}

func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return errors.Wrapf(ErrInvalidConfig, "port %d", c.Port)
	case c.BufferSize <= 0:
		return errors.Wrapf(ErrInvalidConfig, "buffer size %d must be > 0", c.BufferSize)
	case c.RoundCount <= 0:
		return errors.Wrapf(ErrInvalidConfig, "round count %d must be > 0", c.RoundCount)
	case c.PayloadCapacity <= 0:
		return errors.Wrapf(ErrInvalidConfig, "payload capacity %d must be > 0", c.PayloadCapacity)
	case c.AddrCapacity < 0 || c.ControlCapacity < 0:
		return errors.Wrapf(ErrInvalidConfig, "negative capacity (addr %d, control %d)", c.AddrCapacity, c.ControlCapacity)
	case c.History < 0:
		return errors.Wrapf(ErrInvalidConfig, "history %d", c.History)
	}
	return nil
}

// ListenLoopback binds a UDP socket on 127.0.0.1:port. Sockets created by
// package net are always non-blocking.
func ListenLoopback(port int) (*net.UDPConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	if err != nil {
		return nil, errors.Wrapf(err, "bind 127.0.0.1:%d", port)
	}
	return conn, nil
}
