//go:build !windows

package xaudioshim

import (
	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/hostlog"
	"xaudioshim/internal/offsets"
	"xaudioshim/internal/verify"
	"xaudioshim/internal/xaudio2"
)

// DefaultDeps has no interceptor or protector off windows, so Attach fails.
func DefaultDeps() Deps {
	return Deps{
		Locate:   hostimage.Locate,
		Capture:  hostimage.Capture,
		Verifier: verify.New(),
		Backend:  xaudio2.System{},
		HostSink: func(img hostimage.Image, t offsets.Table) (hostlog.Sink, error) {
			return hostlog.NewHostSink(img, t)
		},
		Offsets: offsets.Current(),
	}
}
