package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func Test_To(t *testing.T) {
	var data1 uint32 = 0x3f800000
	require.Equal(t, float32(1), To[float32](data1))

	var data2 = [4]byte{1, 2, 3, 4}
	require.Equal(t, uint32(0x04030201), To[uint32](data2))

	require.Panics(t, func() { To[uint64](uint32(1)) })
}

func Test_Add(t *testing.T) {
	var data1 = []byte{1, 2, 3, 4, 5, 6}

	var r1 = (*byte)(Add(unsafe.Pointer(&data1[0]), 2))
	require.Equal(t, byte(3), *r1)
}

func Test_Copy(t *testing.T) {
	var data1 = [8]byte{1, 2, 3, 4, 4, 3, 2, 1}
	var data2 uint64

	Copy(unsafe.Pointer(&data2), unsafe.Pointer(&data1), 8)
	require.Equal(t, uint64(0x102030404030201), data2)
}

func Test_Unaligned(t *testing.T) {
	var buf = make([]byte, 4+PtrSize+4)
	p := unsafe.Pointer(&buf[0])

	PutUintptr(p, 4, 0x11223344)
	require.Equal(t, uintptr(0x11223344), Uintptr(p, 4))

	buf[0], buf[1] = 0x02, 0x01
	require.Equal(t, uint32(0x0102), Uint32(p, 0))
}

func Test_View(t *testing.T) {
	require.Nil(t, View(nil, 4))

	var data = [3]byte{7, 8, 9}
	require.Equal(t, []byte{7, 8, 9}, View(unsafe.Pointer(&data), 3))
}

func Test_UTF16(t *testing.T) {
	var dst [6]uint16
	UTF16(dst[:], "ABC1234")
	require.Equal(t, [6]uint16{'A', 'B', 'C', '1', '2', 0}, dst)

	UTF16(dst[:], "x")
	require.Equal(t, [6]uint16{'x', 0, 0, 0, 0, 0}, dst)
}
