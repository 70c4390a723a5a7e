//go:build windows

package hostimage

import (
	"os"
	"unsafe"

	"github.com/lxn/win"
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Locate finds the main module of the current process.
func Locate() (Image, error) {
	h := win.GetModuleHandle(nil)
	if h == 0 {
		return Image{}, errors.New("GetModuleHandle returned no module")
	}

	var mi windows.ModuleInfo
	if err := windows.GetModuleInformation(windows.CurrentProcess(), windows.Handle(h), &mi, uint32(unsafe.Sizeof(mi))); err != nil {
		return Image{}, errors.Wrap(err, "GetModuleInformation")
	}

	path, err := os.Executable()
	if err != nil {
		return Image{}, errors.Wrap(err, "executable path")
	}
	return Image{Base: mi.BaseOfDll, Size: uintptr(mi.SizeOfImage), Path: path}, nil
}
