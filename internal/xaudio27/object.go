package xaudio27

import (
	"runtime"
	"unsafe"

	"xaudioshim/internal/mem"
)

const objectMagic = 0x58413237 // "XA27"

// object is the record handed to the host as an interface pointer. The host
// only ever reads the first word, so the dispatch table pointer must stay the
// first field.
type object struct {
	vtbl  *uintptr
	magic uint32
	shape Shape
	impl  any
	pin   runtime.Pinner
}

const magicOffset = unsafe.Offsetof(object{}.magic)

// wrap allocates a record for impl and pins it until free. The dispatch
// tables must have been built.
func wrap(shape Shape, impl any) unsafe.Pointer {
	t := dispatch.tables[shape]
	if len(t) == 0 {
		panic("xaudio27: wrap before the dispatch tables were built")
	}
	o := &object{
		vtbl:  &t[0],
		magic: objectMagic,
		shape: shape,
		impl:  impl,
	}
	o.pin.Pin(o)
	return unsafe.Pointer(o)
}

// unwrap resolves a host handle from the record it points at. Both the magic
// word and the dispatch table pointer of the record must match.
func unwrap(p unsafe.Pointer) (*object, bool) {
	if p == nil || mem.Uint32(p, magicOffset) != objectMagic {
		return nil, false
	}
	o := (*object)(p)
	if o.shape < 0 || o.shape >= shapeCount {
		return nil, false
	}
	t := dispatch.tables[o.shape]
	if len(t) == 0 || o.vtbl != &t[0] {
		return nil, false
	}
	return o, true
}

// free releases a record. The handle is invalid afterwards.
func free(o *object) {
	o.magic = 0
	o.impl = nil
	o.pin.Unpin()
}

// voiceOf returns the implementation behind a legacy voice handle.
func voiceOf(p unsafe.Pointer) (legacyVoice, bool) {
	o, ok := unwrap(p)
	if !ok {
		return nil, false
	}
	v, ok := o.impl.(legacyVoice)
	return v, ok
}
