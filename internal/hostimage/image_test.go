package hostimage

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func Test_Addr(t *testing.T) {
	img := Image{Base: 0x140000000, Size: 0x1000}
	addr, err := img.Addr(0x10)
	require.NoError(t, err)
	require.Equal(t, uintptr(0x140000010), addr)

	_, err = img.Addr(0x1000)
	require.True(t, errors.Is(err, ErrOutOfRange))
}

func Test_Contains(t *testing.T) {
	img := Image{Base: 0x1000, Size: 0x100}
	require.True(t, img.Contains(0x1000, 0x100))
	require.True(t, img.Contains(0x10F8, 8))
	require.False(t, img.Contains(0x10F9, 8))
	require.False(t, img.Contains(0xFFF, 1))
	require.False(t, img.Contains(0x1000, 0x101))
	require.False(t, img.Contains(^uintptr(0), 2))
}

func Test_Capture(t *testing.T) {
	reset()
	defer reset()

	require.False(t, Captured())
	require.Panics(t, func() { Get() })

	img := Image{Base: 0x1000, Size: 0x100, Path: `C:\UDK\Binaries\Win64\UDK.exe`}
	require.NoError(t, Capture(img))
	require.True(t, Captured())
	require.Equal(t, img, Get())

	require.ErrorIs(t, Capture(Image{Base: 0x2000}), ErrAlreadyCaptured)
	require.Equal(t, img, Get())
}
