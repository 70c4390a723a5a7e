//go:build windows

package xaudioshim

import (
	"xaudioshim/internal/hook"
	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/hostlog"
	"xaudioshim/internal/offsets"
	"xaudioshim/internal/patch"
	"xaudioshim/internal/verify"
	"xaudioshim/internal/xaudio2"
)

// DefaultDeps wires the windows implementations.
func DefaultDeps() Deps {
	return Deps{
		Locate:      hostimage.Locate,
		Capture:     hostimage.Capture,
		Verifier:    verify.New(),
		Interceptor: hook.Inline{},
		Protector:   patch.VirtualProtector{},
		Backend:     xaudio2.System{},
		HostSink: func(img hostimage.Image, t offsets.Table) (hostlog.Sink, error) {
			return hostlog.NewHostSink(img, t)
		},
		Offsets: offsets.Current(),
	}
}
