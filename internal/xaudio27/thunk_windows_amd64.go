//go:build windows && amd64

package xaudio27

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"xaudioshim/internal/mem"
)

// Go callbacks only read integer registers. A float second argument arrives
// in XMM1, so the thunk moves it into RDX before entering the callback:
//
//	movq   rdx, xmm1
//	movabs rax, target
//	jmp    rax
var floatThunkCode = []byte{
	0x66, 0x48, 0x0F, 0x7E, 0xCA,
	0x48, 0xB8, 0, 0, 0, 0, 0, 0, 0, 0,
	0xFF, 0xE0,
}

const thunkStride = 32

var thunkPage struct {
	sync.Mutex
	base uintptr
	used uintptr
}

func floatThunk(target uintptr) (uintptr, error) {
	thunkPage.Lock()
	defer thunkPage.Unlock()

	if thunkPage.base == 0 || thunkPage.used+thunkStride > uintptr(windows.Getpagesize()) {
		p, err := windows.VirtualAlloc(0, uintptr(windows.Getpagesize()),
			windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
		if err != nil {
			return 0, errors.Wrap(err, "allocate float thunk page")
		}
		thunkPage.base, thunkPage.used = p, 0
	}

	addr := thunkPage.base + thunkPage.used
	code := mem.HostBytes(addr, len(floatThunkCode))
	copy(code, floatThunkCode)
	mem.PutUintptr(unsafe.Pointer(&code[7]), 0, target)
	thunkPage.used += thunkStride
	return addr, nil
}
