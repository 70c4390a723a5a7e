//go:build windows && !amd64

package xaudio27

// On 386 a float argument is passed on the stack like any other 4 byte value.
func floatThunk(target uintptr) (uintptr, error) {
	return target, nil
}
