//go:build windows

package hostlog

import (
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procOutputDebugStringW = kernel32.NewProc("OutputDebugStringW")
)

func utf16(text string) *uint16 {
	p, err := windows.UTF16PtrFromString(strings.ReplaceAll(text, "\x00", " "))
	if err != nil {
		return nil
	}
	return p
}

// Log calls the host's cdecl log function.
func (s *HostSink) Log(severity Severity, text string) {
	p := utf16(text)
	if p == nil {
		return
	}
	syscall.SyscallN(s.Function, s.Object, uintptr(severity), uintptr(unsafe.Pointer(p)))
}

func debugOutput(text string) {
	p := utf16(text + "\n")
	if p == nil || procOutputDebugStringW.Find() != nil {
		return
	}
	procOutputDebugStringW.Call(uintptr(unsafe.Pointer(p)))
}
