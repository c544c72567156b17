/*
@Author: Lzww
@LastEditTime: 2025-9-14 21:02:17
@Description: Errors
@Language: Go 1.23.4
*/

package recvbench

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	ErrAllocation      = errors.New("slot pool allocation failed")
	ErrPoolClosed      = errors.New("slot pool closed")
	ErrInvalidStrategy = errors.New("invalid receive strategy")
	ErrInvalidConfig   = errors.New("invalid config")
)

// ReceiveError reports a receive call that failed for a reason other than
// "would block". The receiver state is left as it was before the call.
type ReceiveError struct {
	Strategy Strategy
	Err      error
}

func (e *ReceiveError) Error() string {
	return fmt.Sprintf("receive via %s: %v", e.Strategy, e.Err)
}

func (e *ReceiveError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying on a later round may succeed.
func (e *ReceiveError) Temporary() bool {
	return errors.Is(e.Err, unix.EINTR) || errors.Is(e.Err, unix.ENOBUFS)
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
