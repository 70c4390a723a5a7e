// Package mem holds the few raw memory helpers the shim needs when it reads
// or writes host-owned memory.
package mem

import (
	"encoding/binary"
	"unsafe"
)

// PtrSize is the size of a host pointer.
const PtrSize = unsafe.Sizeof(uintptr(0))

// To reinterprets the bits of v as a T. Both types must have the same size.
func To[T, V any](v V) T {
	if unsafe.Sizeof(v) != unsafe.Sizeof(*new(T)) {
		panic("mem: size mismatch")
	}
	return *(*T)(unsafe.Pointer(&v))
}

// Add returns p advanced by delta bytes.
func Add(p unsafe.Pointer, delta uintptr) unsafe.Pointer {
	return unsafe.Add(p, delta)
}

// Pointer turns a host address into a pointer. Host memory is not managed by
// the Go runtime, so the conversion is the only place addresses become
// pointers.
func Pointer(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr)
}

// View returns n bytes starting at p without copying.
func View(p unsafe.Pointer, n int) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// HostBytes is View for a raw host address.
func HostBytes(addr uintptr, n int) []byte {
	return View(Pointer(addr), n)
}

// Copy is memcpy(dst, src, size).
func Copy(dst, src unsafe.Pointer, size int) {
	copy(View(dst, size), View(src, size))
}

// Uint32 reads an unaligned uint32 at p+off.
func Uint32(p unsafe.Pointer, off uintptr) uint32 {
	return binary.LittleEndian.Uint32(View(unsafe.Add(p, off), 4))
}

// Uintptr reads an unaligned pointer-sized value at p+off.
func Uintptr(p unsafe.Pointer, off uintptr) uintptr {
	b := View(unsafe.Add(p, off), int(PtrSize))
	if PtrSize == 8 {
		return uintptr(binary.LittleEndian.Uint64(b))
	}
	return uintptr(binary.LittleEndian.Uint32(b))
}

// PutUintptr writes an unaligned pointer-sized value at p+off.
func PutUintptr(p unsafe.Pointer, off uintptr, v uintptr) {
	b := View(unsafe.Add(p, off), int(PtrSize))
	if PtrSize == 8 {
		binary.LittleEndian.PutUint64(b, uint64(v))
		return
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// PutUintptrBytes is PutUintptr for a byte buffer.
func PutUintptrBytes(b []byte, v uintptr) {
	if PtrSize == 8 {
		binary.LittleEndian.PutUint64(b, uint64(v))
		return
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// UTF16 copies s into dst as a NUL terminated UTF-16 string, truncating so the
// terminator always fits.
func UTF16(dst []uint16, s string) {
	i := 0
	for _, r := range s {
		if i >= len(dst)-1 {
			break
		}
		if r > 0xffff {
			r = 0xfffd
		}
		dst[i] = uint16(r)
		i++
	}
	for ; i < len(dst); i++ {
		dst[i] = 0
	}
}
