// Package xaudioshim attaches the XAudio 2.7 compatibility layer to the one
// host build it knows.
package xaudioshim

import (
	"fmt"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"xaudioshim/internal/config"
	"xaudioshim/internal/hook"
	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/hostlog"
	"xaudioshim/internal/offsets"
	"xaudioshim/internal/patch"
	"xaudioshim/internal/xaudio2"
	"xaudioshim/internal/xaudio27"
)

var ErrMissingDep = errors.New("missing dependency")

// Verifier identifies the host executable.
type Verifier interface {
	VerifyFile(path string) ([32]byte, error)
}

// Deps are the pieces Attach is built from.
type Deps struct {
	Locate      func() (hostimage.Image, error)
	Capture     func(hostimage.Image) error
	Verifier    Verifier
	Interceptor hook.Interceptor
	Protector   patch.Protector
	Backend     xaudio2.Backend
	HostSink    func(hostimage.Image, offsets.Table) (hostlog.Sink, error)
	Offsets     offsets.Table

	// Detours and Slots give the replacement address per name. Missing
	// entries are filled from the emulation layer.
	Detours map[offsets.Name]uintptr
	Slots   map[offsets.Name]uintptr
}

func (d *Deps) check() error {
	switch {
	case d.Locate == nil:
		return errors.WithMessage(ErrMissingDep, "Locate")
	case d.Capture == nil:
		return errors.WithMessage(ErrMissingDep, "Capture")
	case d.Verifier == nil:
		return errors.WithMessage(ErrMissingDep, "Verifier")
	case d.Interceptor == nil:
		return errors.WithMessage(ErrMissingDep, "Interceptor")
	case d.Protector == nil:
		return errors.WithMessage(ErrMissingDep, "Protector")
	case d.Backend == nil:
		return errors.WithMessage(ErrMissingDep, "Backend")
	case d.HostSink == nil:
		return errors.WithMessage(ErrMissingDep, "HostSink")
	}
	return nil
}

func (d *Deps) detour(name offsets.Name) uintptr {
	if fn, ok := d.Detours[name]; ok {
		return fn
	}
	if name == offsets.XAudio2Create {
		return xaudio27.DetourAddress()
	}
	return 0
}

func (d *Deps) slot(name offsets.Name) uintptr {
	if fn, ok := d.Slots[name]; ok {
		return fn
	}
	if name == offsets.CreateFXSlot {
		return xaudio27.CreateFXAddress()
	}
	return 0
}

// Shim is an attached compatibility layer.
type Shim struct {
	image     hostimage.Image
	digest    [32]byte
	installer *hook.Installer
	applier   *patch.Applier
}

// Attach identifies the host, routes logging into it, installs every hook,
// patches every slot and finally enables the hooks. On error everything done so far is
// undone and the host is left as it was.
func Attach(cfg config.Config, deps Deps) (_ *Shim, err error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	table := deps.Offsets
	if table == nil {
		table = offsets.Current()
	}

	img, err := deps.Locate()
	if err != nil {
		return nil, errors.WithMessage(err, "locate host image")
	}
	sum, err := deps.Verifier.VerifyFile(img.Path)
	if err != nil {
		return nil, errors.WithMessagef(err, "verify %s", img.Path)
	}
	if err := deps.Capture(img); err != nil {
		return nil, errors.WithMessage(err, "capture host image")
	}

	sink, err := deps.HostSink(img, table)
	if err != nil {
		return nil, errors.WithMessage(err, "host log")
	}
	log.SetHandler(hostlog.New(sink, cfg.LogPrefix, cfg.DebugOutput))
	log.SetLevel(cfg.Level())

	sh := &Shim{
		image:     img,
		digest:    sum,
		installer: &hook.Installer{Image: img, Offsets: table, Interceptor: deps.Interceptor},
		applier:   &patch.Applier{Image: img, Offsets: table, Protector: deps.Protector},
	}
	defer func() {
		if err != nil {
			if e := sh.Detach(); e != nil {
				log.WithError(e).Error("rollback")
			}
		}
	}()

	xaudio27.Install(&xaudio27.Runtime{
		Backend: deps.Backend,
		Debug:   xaudio27.DefaultDebug(uint32(cfg.EngineTrace)),
	})

	for _, name := range offsets.Hooks() {
		if _, err := sh.installer.Install(name, deps.detour(name)); err != nil {
			return nil, errors.WithMessagef(err, "install %s", name)
		}
	}
	for _, name := range offsets.Slots() {
		if _, err := sh.applier.Patch(name, deps.slot(name)); err != nil {
			return nil, err
		}
	}
	// Enabling goes last: once a hook is live nothing else may fail.
	if err := sh.installer.EnableAll(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"base":  fmt.Sprintf("0x%X", img.Base),
		"hooks": len(offsets.Hooks()),
		"slots": len(offsets.Slots()),
	}).Debug("attached")
	return sh, nil
}

// Image is the verified host image.
func (s *Shim) Image() hostimage.Image { return s.image }

// Digest is the .text digest the host was identified by.
func (s *Shim) Digest() [32]byte { return s.digest }

// Hook returns the installed hook for name.
func (s *Shim) Hook(name offsets.Name) (*hook.Handle, bool) {
	return s.installer.Handle(name)
}

// Patched reports whether the slot name has been overwritten.
func (s *Shim) Patched(name offsets.Name) bool {
	return s.applier.Patched(name)
}

// Detach restores every slot, closes every hook and uninstalls the runtime.
// Objects the host already holds keep working until released.
func (s *Shim) Detach() error {
	first := s.applier.RestoreAll()
	if err := s.installer.Close(); err != nil && first == nil {
		first = err
	}
	xaudio27.Install(nil)
	return first
}
