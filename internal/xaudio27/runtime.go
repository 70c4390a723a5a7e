package xaudio27

import (
	"sync/atomic"
	"unsafe"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"xaudioshim/internal/mem"
	"xaudioshim/internal/xaudio2"
)

// ErrNoRuntime is returned when a legacy entry point runs before Install.
var ErrNoRuntime = errors.New("xaudio27: runtime not installed")

// Runtime is what the emulated objects delegate to.
type Runtime struct {
	Backend xaudio2.Backend
	// Debug is applied to every engine right after creation.
	Debug xaudio2.DebugConfiguration
}

// DefaultDebug logs errors and warnings with file and function names.
func DefaultDebug(traceMask uint32) xaudio2.DebugConfiguration {
	return xaudio2.DebugConfiguration{
		TraceMask:       traceMask,
		LogFileline:     1,
		LogFunctionName: 1,
	}
}

var rt atomic.Pointer[Runtime]

// Install makes r the runtime used by XAudio2CreateDetour and CreateFX.
func Install(r *Runtime) {
	rt.Store(r)
}

func current() (*Runtime, error) {
	r := rt.Load()
	if r == nil || r.Backend == nil {
		return nil, ErrNoRuntime
	}
	return r, nil
}

// NewEngine creates a 2.9 engine and returns the legacy IXAudio2 handle for
// it. The handle starts with one reference.
func NewEngine() (unsafe.Pointer, error) {
	r, err := current()
	if err != nil {
		return nil, err
	}
	if err := buildTables(); err != nil {
		return nil, errors.WithMessage(err, "build dispatch tables")
	}
	inner, err := r.Backend.Create(0, xaudio2.DEFAULT_PROCESSOR)
	if err != nil {
		return nil, errors.Wrap(err, "create XAudio 2.9 engine")
	}
	debug := r.Debug
	inner.SetDebugConfiguration(&debug)

	e := &engine{inner: inner}
	e.refs.Store(1)
	e.sink = wrap(ShapeEngineCallback, &sink{})
	if err := inner.RegisterForCallbacks(e.sink); err != nil {
		log.WithError(err).Warn("engine callback not registered")
		if so, ok := unwrap(e.sink); ok {
			free(so)
		}
		e.sink = nil
	}
	return wrap(ShapeEngine, e), nil
}

// XAudio2CreateDetour replaces the host's XAudio2Create. The requested flags
// and processor are 2.7 values and are not forwarded.
func XAudio2CreateDetour(out unsafe.Pointer, flags, processor uintptr) (ret uintptr) {
	defer guard("XAudio2Create", &ret)
	if out == nil {
		return ePointer
	}
	p, err := NewEngine()
	if err != nil {
		log.WithError(err).Error("XAudio2Create")
		return hr(err)
	}
	mem.PutUintptr(out, 0, uintptr(p))
	log.WithFields(log.Fields{
		"flags":     uint32(flags),
		"processor": uint32(processor),
	}).Info("Hooked XAudio2Create and loaded XAudio 2.7 detours")
	return sOK
}
