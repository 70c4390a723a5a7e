//go:build windows

package xaudio27

import (
	"golang.org/x/sys/windows"
)

// callback turns a slot decoder into a stdcall code address.
func callback(s slot) (uintptr, error) {
	cb := windows.NewCallback(s.fn)
	if s.float {
		return floatThunk(cb)
	}
	return cb, nil
}

// DetourAddress is the code address of XAudio2CreateDetour, called with the
// host's cdecl convention.
func DetourAddress() uintptr {
	return windows.NewCallbackCDecl(XAudio2CreateDetour)
}

// CreateFXAddress is the code address of CreateFX.
func CreateFXAddress() uintptr {
	return windows.NewCallbackCDecl(CreateFX)
}
