// Package hostimage describes the host's main module once it has been
// identified.
package hostimage

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrOutOfRange      = errors.New("offset outside the host image")
	ErrAlreadyCaptured = errors.New("host image already captured")
)

// Image is the loaded main module of the host process.
type Image struct {
	Base uintptr
	Size uintptr
	Path string
}

// Addr returns the absolute address of an image-relative offset.
func (i Image) Addr(off uintptr) (uintptr, error) {
	if off >= i.Size {
		return 0, errors.WithMessagef(ErrOutOfRange, "offset 0x%X, image size 0x%X", off, i.Size)
	}
	return i.Base + off, nil
}

// Contains reports whether [addr, addr+n) lies inside the image.
func (i Image) Contains(addr, n uintptr) bool {
	if addr < i.Base || n > i.Size {
		return false
	}
	return addr-i.Base <= i.Size-n
}

var (
	mu       sync.RWMutex
	captured *Image
)

// Capture records img as the verified host image. It succeeds once per
// process.
func Capture(img Image) error {
	mu.Lock()
	defer mu.Unlock()
	if captured != nil {
		return ErrAlreadyCaptured
	}
	captured = &img
	return nil
}

// Captured reports whether Capture has succeeded.
func Captured() bool {
	mu.RLock()
	defer mu.RUnlock()
	return captured != nil
}

// Get returns the captured image. Calling it before Capture is a programming
// error.
func Get() Image {
	mu.RLock()
	defer mu.RUnlock()
	if captured == nil {
		panic("hostimage: Get before Capture")
	}
	return *captured
}

func reset() {
	mu.Lock()
	captured = nil
	mu.Unlock()
}
