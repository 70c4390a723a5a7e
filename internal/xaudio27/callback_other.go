//go:build !windows

package xaudio27

import "reflect"

// callback has no foreign caller here; the decoder's entry address keeps the
// tables comparable in tests.
func callback(s slot) (uintptr, error) {
	return reflect.ValueOf(s.fn).Pointer(), nil
}

func DetourAddress() uintptr {
	return reflect.ValueOf(XAudio2CreateDetour).Pointer()
}

func CreateFXAddress() uintptr {
	return reflect.ValueOf(CreateFX).Pointer()
}
