/*
@Author: Lzww
@LastEditTime: 2025-9-14 21:40:05
@Description: Message descriptor layout shared by recvmmsg and recvmsg
@Language: Go 1.23.4
*/

package recvbench

import "golang.org/x/sys/unix"

// mmsghdr mirrors struct mmsghdr. The trailing padding required on 64-bit
// targets comes from the alignment of unix.Msghdr.
type mmsghdr struct {
	Hdr unix.Msghdr
	Len uint32
}
