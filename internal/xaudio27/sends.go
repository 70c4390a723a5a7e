package xaudio27

import (
	"unsafe"

	"github.com/pkg/errors"

	"xaudioshim/internal/mem"
	"xaudioshim/internal/xaudio2"
)

// sendRecord is the packed size of both XAUDIO2_VOICE_SENDS and
// XAUDIO2_SEND_DESCRIPTOR: a UINT32 followed by a pointer.
const sendRecord = 4 + mem.PtrSize

// maxSends bounds a send list read from the host.
const maxSends = 64

// translateSends reads a legacy send list. Every destination must be a voice
// this package emulates; a NULL destination stays nil. A NULL list is nil.
func translateSends(p unsafe.Pointer) (*xaudio2.VoiceSends, error) {
	if p == nil {
		return nil, nil
	}
	n := mem.Uint32(p, 0)
	if n > maxSends {
		return nil, errors.WithMessagef(xaudio2.E_INVALIDARG, "%d sends, at most %d", n, maxSends)
	}
	list := mem.Pointer(mem.Uintptr(p, 4))
	if n > 0 && list == nil {
		return nil, errors.WithMessagef(xaudio2.E_INVALIDARG, "%d sends without descriptors", n)
	}

	sends := &xaudio2.VoiceSends{Sends: make([]xaudio2.SendDescriptor, n)}
	for i := range sends.Sends {
		d := mem.Add(list, uintptr(i)*sendRecord)
		sends.Sends[i].Flags = mem.Uint32(d, 0)
		dest := mem.Pointer(mem.Uintptr(d, 4))
		if dest == nil {
			continue
		}
		v, ok := voiceOf(dest)
		if !ok {
			return nil, errors.WithMessagef(xaudio2.E_INVALIDARG, "send %d: destination is not a voice", i)
		}
		sends.Sends[i].OutputVoice = v.base().inner
	}
	return sends, nil
}

// destination resolves a nullable legacy voice argument.
func destination(p unsafe.Pointer) (xaudio2.Voice, error) {
	if p == nil {
		return nil, nil
	}
	v, ok := voiceOf(p)
	if !ok {
		return nil, errors.WithMessage(xaudio2.E_INVALIDARG, "destination is not a voice")
	}
	return v.base().inner, nil
}
