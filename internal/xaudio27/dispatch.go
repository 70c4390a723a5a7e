package xaudio27

import (
	"github.com/apex/log"

	"xaudioshim/internal/xaudio2"
)

// Every slot decoder takes the host's arguments as pointer sized words and
// returns one. Failures are reported as HRESULTs; a panic never crosses back
// into the host.

const (
	sOK          = uintptr(xaudio2.S_OK)
	eFail        = uintptr(xaudio2.E_FAIL)
	eNotImpl     = uintptr(xaudio2.E_NOTIMPL)
	eInvalidArg  = uintptr(xaudio2.E_INVALIDARG)
	ePointer     = uintptr(xaudio2.E_POINTER)
	eInvalidCall = uintptr(xaudio2.XAUDIO2_E_INVALID_CALL)
)

// guard converts a panic in a decoder into E_FAIL.
func guard(method string, ret *uintptr) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"method": method,
			"panic":  r,
		}).Error("recovered panic in legacy call")
		*ret = eFail
	}
}

func hr(err error) uintptr {
	return uintptr(xaudio2.Result(err))
}

// unimplemented is the body of every slot without a 2.9 counterpart.
func unimplemented(shape Shape, method string) uintptr {
	log.Warnf("unimplemented: %s.%s", shape, method)
	return eNotImpl
}

func badHandle(method string) uintptr {
	log.WithField("method", method).Error("call on an unknown handle")
	return eInvalidArg
}
