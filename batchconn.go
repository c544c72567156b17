/*
@Author: Lzww
@LastEditTime: 2025-9-17 22:41:06
@Description: Batch UDP write interface used by the sender
@Language: Go 1.23.4
*/

package recvbench

import (
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

type batchConn interface {
	WriteBatch(ms []ipv4.Message, flags int) (int, error)
}

// newBatchConn wraps a UDP socket for sendmmsg(2) style writes. It returns
// nil for anything that is not a *net.UDPConn.
func newBatchConn(conn net.PacketConn) batchConn {
	if _, ok := conn.(*net.UDPConn); !ok {
		return nil
	}
	addr, err := net.ResolveUDPAddr("udp", conn.LocalAddr().String())
	if err != nil {
		return nil
	}
	if addr.IP.To4() != nil {
		return ipv4.NewPacketConn(conn)
	}
	return ipv6.NewPacketConn(conn)
}
