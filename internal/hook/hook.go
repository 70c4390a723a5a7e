// Package hook installs inline detours on functions inside the host image.
//
// Installing a hook prepares everything (trampoline, patch bytes) without
// touching the target. Control flow only changes on Enable.
package hook

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/offsets"
)

var (
	ErrNoEntry             = offsets.ErrNoEntry
	ErrOutsideImage        = errors.New("hook target outside the host image")
	ErrAlreadyInstalled    = errors.New("hook already installed")
	ErrNotInstalled        = errors.New("hook not installed")
	ErrUnsupportedPrologue = errors.New("unsupported prologue")
)

// patchSize is the length of the near jmp written over the target.
const patchSize = 5

type State int32

const (
	Uninitialized State = iota
	Initialized
	Enabled
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Enabled:
		return "enabled"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Patch is a prepared detour of one function.
type Patch interface {
	// Trampoline runs the original function.
	Trampoline() uintptr
	// Apply diverts the target to the detour.
	Apply() error
	// Revert restores the target's original bytes.
	Revert() error
	// Release frees the trampoline. The patch must not be applied.
	Release() error
}

// Interceptor prepares patches.
type Interceptor interface {
	Prepare(target, detour uintptr) (Patch, error)
}

// Handle is one installed hook.
type Handle struct {
	name   offsets.Name
	target uintptr
	detour uintptr

	mu    sync.Mutex
	state State
	patch Patch
}

func (h *Handle) Name() offsets.Name { return h.name }

// Target is the absolute address of the hooked function.
func (h *Handle) Target() uintptr { return h.target }

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Original returns the address that runs the original function, whether or
// not the hook is enabled. It is zero before install and after Close.
func (h *Handle) Original() uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != Initialized && h.state != Enabled {
		return 0
	}
	return h.patch.Trampoline()
}

// Enable diverts the target to the detour. Enabling an enabled hook does
// nothing.
func (h *Handle) Enable() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case Enabled:
		return nil
	case Initialized:
		if err := h.patch.Apply(); err != nil {
			return errors.WithMessagef(err, "enable %s", h.name)
		}
		h.state = Enabled
		return nil
	}
	return errors.WithMessagef(ErrNotInstalled, "enable %s (%s)", h.name, h.state)
}

// Disable restores the original bytes. Disabling a disabled hook does
// nothing.
func (h *Handle) Disable() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case Initialized:
		return nil
	case Enabled:
		if err := h.patch.Revert(); err != nil {
			return errors.WithMessagef(err, "disable %s", h.name)
		}
		h.state = Initialized
		return nil
	}
	return errors.WithMessagef(ErrNotInstalled, "disable %s (%s)", h.name, h.state)
}

// Close disables the hook and frees its trampoline.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case Uninitialized, Closed:
		return nil
	case Enabled:
		if err := h.patch.Revert(); err != nil {
			return errors.WithMessagef(err, "close %s", h.name)
		}
		h.state = Initialized
	}
	if err := h.patch.Release(); err != nil {
		return errors.WithMessagef(err, "close %s", h.name)
	}
	h.state = Closed
	return nil
}

// Installer installs hooks at named offsets of one image.
type Installer struct {
	Image       hostimage.Image
	Offsets     offsets.Table
	Interceptor Interceptor

	mu      sync.Mutex
	handles map[offsets.Name]*Handle
	order   []offsets.Name
}

// Install prepares a hook for name without enabling it.
func (in *Installer) Install(name offsets.Name, detour uintptr) (*Handle, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, ok := in.handles[name]; ok {
		return nil, errors.WithMessagef(ErrAlreadyInstalled, "%s", name)
	}
	off, err := in.Offsets.Lookup(name)
	if err != nil {
		return nil, err
	}
	target := in.Image.Base + off
	if !in.Image.Contains(target, patchSize) {
		return nil, errors.WithMessagef(ErrOutsideImage, "%s at 0x%X", name, target)
	}

	p, err := in.Interceptor.Prepare(target, detour)
	if err != nil {
		return nil, errors.WithMessagef(err, "prepare %s at 0x%X", name, target)
	}

	h := &Handle{name: name, target: target, detour: detour, state: Initialized, patch: p}
	if in.handles == nil {
		in.handles = make(map[offsets.Name]*Handle)
	}
	in.handles[name] = h
	in.order = append(in.order, name)
	return h, nil
}

// Handle returns the hook installed for name.
func (in *Installer) Handle(name offsets.Name) (*Handle, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	h, ok := in.handles[name]
	return h, ok
}

// Handles returns every installed hook in install order.
func (in *Installer) Handles() []*Handle {
	in.mu.Lock()
	defer in.mu.Unlock()
	hs := make([]*Handle, 0, len(in.order))
	for _, name := range in.order {
		hs = append(hs, in.handles[name])
	}
	return hs
}

// EnableAll enables every hook. If one fails, the ones already enabled are
// disabled again.
func (in *Installer) EnableAll() error {
	hs := in.Handles()
	for i, h := range hs {
		if err := h.Enable(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = hs[j].Disable()
			}
			return err
		}
	}
	return nil
}

// Close closes every hook, last installed first, and forgets the ones that
// closed. It returns the first error.
func (in *Installer) Close() error {
	hs := in.Handles()
	var first error
	for i := len(hs) - 1; i >= 0; i-- {
		if err := hs[i].Close(); err != nil && first == nil {
			first = err
		}
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	order := in.order[:0]
	for _, name := range in.order {
		if in.handles[name].State() == Closed {
			delete(in.handles, name)
			continue
		}
		order = append(order, name)
	}
	in.order = order
	return first
}
