//go:build unix && !linux

/*
@Author: Lzww
@LastEditTime: 2025-9-15 20:52:10
@Description: recvmsg(2) entry point for non-Linux unix targets
@Language: Go 1.23.4
*/

package recvbench

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	recvmmsgFunc = recvmmsg
	recvmsgFunc  = recvmsg
)

// recvmmsg is Linux and NetBSD only; BatchedSyscall fails with ENOSYS here.
func recvmmsg(fd int, msgs []mmsghdr, flags int) (int, error) {
	return 0, unix.ENOSYS
}

func recvmsg(fd int, msg *unix.Msghdr, flags int) (int, error) {
	r0, _, e1 := unix.Syscall(unix.SYS_RECVMSG, uintptr(fd),
		uintptr(unsafe.Pointer(msg)), uintptr(flags))
	if e1 != 0 {
		return 0, e1
	}
	return int(r0), nil
}

// BSD-derived sockaddrs start with sa_len followed by an 8-bit sa_family.
func sockaddrFamily(b []byte) int {
	return int(b[1])
}
