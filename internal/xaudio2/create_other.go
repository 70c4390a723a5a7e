//go:build !windows

package xaudio2

import (
	"unsafe"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned by System on hosts without xaudio2_9.dll.
var ErrUnsupported = errors.New("xaudio2_9.dll is only available on windows")

// System is the Backend exported by xaudio2_9.dll.
type System struct{}

var _ Backend = System{}

func (System) Create(flags, processor uint32) (Engine, error) {
	return nil, ErrUnsupported
}

func (System) CreateFX(clsid *GUID, initData unsafe.Pointer, initDataSize uint32) (unsafe.Pointer, error) {
	return nil, ErrUnsupported
}
