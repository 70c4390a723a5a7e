package xaudio27

import (
	"sync/atomic"
	"unsafe"

	"github.com/apex/log"

	"xaudioshim/internal/mem"
	"xaudioshim/internal/xaudio2"
)

var (
	IID_IUnknown  = xaudio2.MustParseGUID("00000000-0000-0000-C000-000000000046")
	IID_IXAudio27 = xaudio2.MustParseGUID("8bcf1f58-9fe7-4583-8ac6-e2adc465c8bb")
)

// Voice creation flags the 2.9 engine accepts from a 2.7 caller.
const (
	sourceFlagsMask    = 0x0E // NOPITCH | NOSRC | USEFILTER
	submixFlagsMask    = 0x08 // USEFILTER
	masteringFlagsMask = 0x00
)

// engine is the legacy IXAudio2 over a 2.9 engine.
type engine struct {
	inner xaudio2.Engine
	refs  atomic.Int32
	sink  unsafe.Pointer
}

func engineOf(this unsafe.Pointer) (*object, *engine, bool) {
	o, ok := unwrap(this)
	if !ok {
		return nil, nil, false
	}
	e, ok := o.impl.(*engine)
	return o, e, ok
}

func (e *engine) release(o *object) uint32 {
	n := e.refs.Add(-1)
	if n > 0 {
		return uint32(n)
	}
	if n < 0 {
		log.Warn("IXAudio2 released past zero")
		return 0
	}
	if e.sink != nil {
		e.inner.UnregisterForCallbacks(e.sink)
		if so, ok := unwrap(e.sink); ok {
			free(so)
		}
	}
	e.inner.Release()
	free(o)
	log.Debug("IXAudio2 destroyed")
	return 0
}

func engineQueryInterface(this, riid, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.QueryInterface", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return badHandle("IXAudio2.QueryInterface")
	}
	if out == nil || riid == nil {
		return ePointer
	}
	var iid xaudio2.GUID
	mem.Copy(unsafe.Pointer(&iid), riid, int(unsafe.Sizeof(iid)))
	if iid != IID_IUnknown && iid != IID_IXAudio27 {
		mem.PutUintptr(out, 0, 0)
		return uintptr(xaudio2.E_NOINTERFACE)
	}
	e.refs.Add(1)
	mem.PutUintptr(out, 0, uintptr(this))
	return sOK
}

func engineAddRef(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.AddRef", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return 0
	}
	return uintptr(e.refs.Add(1))
}

func engineRelease(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.Release", &ret)
	o, e, ok := engineOf(this)
	if !ok {
		return 0
	}
	return uintptr(e.release(o))
}

func engineGetDeviceCount(this, count unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.GetDeviceCount", &ret)
	if _, _, ok := engineOf(this); !ok {
		return badHandle("IXAudio2.GetDeviceCount")
	}
	if count == nil {
		return ePointer
	}
	*(*uint32)(count) = 1
	return sOK
}

func engineGetDeviceDetails(this unsafe.Pointer, index uintptr, details unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.GetDeviceDetails", &ret)
	if _, _, ok := engineOf(this); !ok {
		return badHandle("IXAudio2.GetDeviceDetails")
	}
	if uint32(index) != 0 {
		return eInvalidCall
	}
	if details == nil {
		return ePointer
	}
	return hr(writeDeviceDetails(details, virtualDevice()))
}

// Initialize does not exist in 2.9: the engine is already initialized by
// XAudio2Create.
func engineInitialize(this unsafe.Pointer, flags, processor uintptr) (ret uintptr) {
	defer guard("IXAudio2.Initialize", &ret)
	if _, _, ok := engineOf(this); !ok {
		return badHandle("IXAudio2.Initialize")
	}
	log.WithFields(log.Fields{
		"flags":     uint32(flags),
		"processor": uint32(processor),
	}).Debug("IXAudio2.Initialize")
	return sOK
}

func engineRegisterForCallbacks(this, callback unsafe.Pointer) uintptr {
	return unimplemented(ShapeEngine, "RegisterForCallbacks")
}

func engineUnregisterForCallbacks(this, callback unsafe.Pointer) uintptr {
	return unimplemented(ShapeEngine, "UnregisterForCallbacks")
}

func engineCreateSourceVoice(this, out, format unsafe.Pointer, flags, maxFrequencyRatio uintptr,
	callback, sends, chain unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.CreateSourceVoice", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return badHandle("IXAudio2.CreateSourceVoice")
	}
	if out == nil {
		return ePointer
	}
	list, err := translateSends(sends)
	if err != nil {
		return hr(err)
	}
	v, err := e.inner.CreateSourceVoice((*xaudio2.WaveFormatEx)(format), uint32(flags)&sourceFlagsMask,
		mem.To[float32](uint32(maxFrequencyRatio)), callback, list, (*xaudio2.EffectChain)(chain))
	if err != nil {
		log.WithError(err).Warn("CreateSourceVoice")
		return hr(err)
	}
	mem.PutUintptr(out, 0, uintptr(wrap(ShapeSourceVoice, newSourceVoice(v))))
	return sOK
}

func engineCreateSubmixVoice(this, out unsafe.Pointer, channels, sampleRate, flags, stage uintptr,
	sends, chain unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.CreateSubmixVoice", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return badHandle("IXAudio2.CreateSubmixVoice")
	}
	if out == nil {
		return ePointer
	}
	list, err := translateSends(sends)
	if err != nil {
		return hr(err)
	}
	v, err := e.inner.CreateSubmixVoice(uint32(channels), uint32(sampleRate), uint32(flags)&submixFlagsMask,
		uint32(stage), list, (*xaudio2.EffectChain)(chain))
	if err != nil {
		log.WithError(err).Warn("CreateSubmixVoice")
		return hr(err)
	}
	mem.PutUintptr(out, 0, uintptr(wrap(ShapeSubmixVoice, &voice{shape: ShapeSubmixVoice, inner: v})))
	return sOK
}

// CreateMasteringVoice ignores the 2.7 device index: 2.9 opens the default
// device when no device id is given.
func engineCreateMasteringVoice(this, out unsafe.Pointer, channels, sampleRate, flags, deviceIndex uintptr,
	chain unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.CreateMasteringVoice", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return badHandle("IXAudio2.CreateMasteringVoice")
	}
	if out == nil {
		return ePointer
	}
	v, err := e.inner.CreateMasteringVoice(uint32(channels), uint32(sampleRate), uint32(flags)&masteringFlagsMask,
		nil, (*xaudio2.EffectChain)(chain), xaudio2.AudioCategory_GameMedia)
	if err != nil {
		log.WithError(err).Warn("CreateMasteringVoice")
		return hr(err)
	}
	mem.PutUintptr(out, 0, uintptr(wrap(ShapeMasteringVoice, &voice{shape: ShapeMasteringVoice, inner: v})))
	log.WithFields(log.Fields{
		"channels":    uint32(channels),
		"sample_rate": uint32(sampleRate),
	}).Debug("mastering voice created")
	return sOK
}

func engineStartEngine(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.StartEngine", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return badHandle("IXAudio2.StartEngine")
	}
	return hr(e.inner.StartEngine())
}

func engineStopEngine(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.StopEngine", &ret)
	if _, e, ok := engineOf(this); ok {
		e.inner.StopEngine()
	}
	return 0
}

func engineCommitChanges(this unsafe.Pointer, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2.CommitChanges", &ret)
	_, e, ok := engineOf(this)
	if !ok {
		return badHandle("IXAudio2.CommitChanges")
	}
	return hr(e.inner.CommitChanges(uint32(operationSet)))
}

func engineGetPerformanceData(this, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2.GetPerformanceData", &ret)
	if _, e, ok := engineOf(this); ok && out != nil {
		e.inner.GetPerformanceData((*xaudio2.PerformanceData)(out))
	}
	return 0
}

func engineSetDebugConfiguration(this, cfg, reserved unsafe.Pointer) uintptr {
	return unimplemented(ShapeEngine, "SetDebugConfiguration")
}
