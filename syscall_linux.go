//go:build linux

/*
@Author: Lzww
@LastEditTime: 2025-9-15 20:47:31
@Description: recvmmsg(2) and recvmsg(2) entry points
@Language: Go 1.23.4
*/

package recvbench

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// replaced in tests
var (
	recvmmsgFunc = recvmmsg
	recvmsgFunc  = recvmsg
)

func recvmmsg(fd int, msgs []mmsghdr, flags int) (int, error) {
	r0, _, e1 := unix.Syscall6(unix.SYS_RECVMMSG, uintptr(fd),
		uintptr(unsafe.Pointer(unsafe.SliceData(msgs))), uintptr(len(msgs)),
		uintptr(flags), 0, 0)
	if e1 != 0 {
		return 0, e1
	}
	return int(r0), nil
}

func recvmsg(fd int, msg *unix.Msghdr, flags int) (int, error) {
	r0, _, e1 := unix.Syscall(unix.SYS_RECVMSG, uintptr(fd),
		uintptr(unsafe.Pointer(msg)), uintptr(flags))
	if e1 != 0 {
		return 0, e1
	}
	return int(r0), nil
}

// sockaddrFamily reads sa_family, a host-order uint16 at the start of the
// address record.
func sockaddrFamily(b []byte) int {
	return int(binary.NativeEndian.Uint16(b[:2]))
}
