//go:build windows

package patch

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// VirtualProtector changes page protection with VirtualProtect.
type VirtualProtector struct{}

func (VirtualProtector) Unprotect(addr, size uintptr) (func() error, error) {
	var old uint32
	if err := windows.VirtualProtect(addr, size, windows.PAGE_READWRITE, &old); err != nil {
		return nil, errors.Wrapf(err, "VirtualProtect 0x%X", addr)
	}
	return func() error {
		var prev uint32
		return errors.Wrapf(windows.VirtualProtect(addr, size, old, &prev), "VirtualProtect 0x%X", addr)
	}, nil
}
