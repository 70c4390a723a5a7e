package xaudio27

import (
	"unsafe"

	"github.com/apex/log"

	"xaudioshim/internal/xaudio2"
)

// sink is the IXAudio2EngineCallback registered on every 2.9 engine. 2.7
// callers cannot register their own, so critical errors end up in the log.
type sink struct{}

func sinkOnProcessingPassStart(this unsafe.Pointer) uintptr { return 0 }

func sinkOnProcessingPassEnd(this unsafe.Pointer) uintptr { return 0 }

func sinkOnCriticalError(this unsafe.Pointer, code uintptr) (ret uintptr) {
	defer guard("IXAudio2EngineCallback.OnCriticalError", &ret)
	log.WithError(xaudio2.HRESULT(uint32(code))).Error("XAudio2 critical error")
	return 0
}
