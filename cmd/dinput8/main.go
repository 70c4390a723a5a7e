//go:build windows

// Command dinput8 builds the proxy DLL the host loads in place of the system
// dinput8.dll:
//
//	go build -buildmode=c-shared -o dinput8.dll ./cmd/dinput8
package main

import "C"

import (
	"sync"

	"github.com/apex/log"

	"xaudioshim"
	"xaudioshim/internal/config"
	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/proxy"
	"xaudioshim/internal/xaudio2"
)

var (
	shim  *xaudioshim.Shim
	eFail = xaudio2.E_FAIL

	original struct {
		once sync.Once
		m    *proxy.Manager
		err  error
	}
)

func dinput8() (*proxy.Manager, error) {
	original.once.Do(func() {
		original.m, original.err = proxy.NewSystem("dinput8.dll")
	})
	return original.m, original.err
}

// DirectInput8Create never runs before init: the runtime holds calls from
// host threads until package initialization, Attach included, has finished.
//
//export DirectInput8Create
func DirectInput8Create(hinst uintptr, version uint32, riid uintptr, out uintptr, outer uintptr) int32 {
	m, err := dinput8()
	if err != nil {
		log.WithError(err).Error("load system dinput8.dll")
		return int32(eFail)
	}
	r, err := m.Call("DirectInput8Create", hinst, uintptr(version), riid, out, outer)
	if err != nil {
		log.WithError(err).Error("DirectInput8Create")
		return int32(eFail)
	}
	return int32(r)
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("bad environment, using defaults")
		cfg = config.Default()
	}

	shim, err = xaudioshim.Attach(cfg, xaudioshim.DefaultDeps())
	if err != nil {
		log.WithError(err).Error("XAudio 2.7 compatibility disabled")
		return
	}
	log.WithField("host", hostimage.Get().Path).Info("Loaded")
}

func main() {}
