//go:build windows

package hook

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"xaudioshim/internal/mem"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procFlushInstructionCache = modkernel32.NewProc("FlushInstructionCache")
	procGetSystemInfo         = modkernel32.NewProc("GetSystemInfo")
)

type systemInfo struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

func getSystemInfo() (si systemInfo) {
	syscall.SyscallN(procGetSystemInfo.Addr(), uintptr(unsafe.Pointer(&si)))
	return si
}

func flushInstructionCache(addr, size uintptr) error {
	r0, _, e1 := syscall.SyscallN(procFlushInstructionCache.Addr(), uintptr(windows.CurrentProcess()), addr, size)
	if r0 == 0 {
		return errors.Wrap(e1, "FlushInstructionCache")
	}
	return nil
}

// writeCode overwrites executable memory at addr.
func writeCode(addr uintptr, b []byte) error {
	var old uint32
	if err := windows.VirtualProtect(addr, uintptr(len(b)), windows.PAGE_EXECUTE_READWRITE, &old); err != nil {
		return errors.Wrapf(err, "VirtualProtect 0x%X", addr)
	}
	copy(mem.HostBytes(addr, len(b)), b)
	if err := windows.VirtualProtect(addr, uintptr(len(b)), old, &old); err != nil {
		return errors.Wrapf(err, "VirtualProtect 0x%X", addr)
	}
	return flushInstructionCache(addr, uintptr(len(b)))
}

// allocNear reserves one executable page within rel32 reach of target,
// searching outwards one allocation unit at a time.
func allocNear(target uintptr) (uintptr, error) {
	si := getSystemInfo()
	size := uintptr(si.PageSize)
	if mem.PtrSize == 4 {
		return windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	}

	gran := uintptr(si.AllocationGranularity)
	start := target &^ (gran - 1)
	minAddr, maxAddr := si.MinimumApplicationAddress, si.MaximumApplicationAddress
	if start > minAddr+0x7FFF0000 {
		minAddr = start - 0x7FFF0000
	}
	if start < maxAddr-0x7FFF0000 {
		maxAddr = start + 0x7FFF0000
	}

	for step := gran; ; step += gran {
		high, low := start+step, start-step
		tried := false
		if high+size <= maxAddr {
			tried = true
			if p, err := windows.VirtualAlloc(high, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE); err == nil {
				return p, nil
			}
		}
		if start > step && low >= minAddr {
			tried = true
			if p, err := windows.VirtualAlloc(low, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE); err == nil {
				return p, nil
			}
		}
		if !tried {
			return 0, errors.Errorf("no free page within reach of 0x%X", target)
		}
	}
}
