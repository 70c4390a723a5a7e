//go:build windows

package hook

import (
	"syscall"
)

// Call runs the original function with args and returns its result.
func (h *Handle) Call(args ...uintptr) uintptr {
	fn := h.Original()
	if fn == 0 {
		return 0
	}
	r, _, _ := syscall.SyscallN(fn, args...)
	return r
}
