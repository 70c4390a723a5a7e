// Package patch overwrites function pointer slots inside the host image.
package patch

import (
	"sync"

	"github.com/pkg/errors"

	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/mem"
	"xaudioshim/internal/offsets"
)

var (
	ErrOutsideImage   = errors.New("slot outside the host image")
	ErrAlreadyPatched = errors.New("slot already patched")
	ErrNotPatched     = errors.New("slot not patched")
)

// Protector makes memory writable for the duration of a write.
type Protector interface {
	// Unprotect makes [addr, addr+size) writable. restore puts the previous
	// protection back.
	Unprotect(addr, size uintptr) (restore func() error, err error)
}

// Applier writes pointer slots.
//
// A slot is written with a plain store while the host may be reading it, so
// patches must be applied before the host first calls through the slot.
type Applier struct {
	Image     hostimage.Image
	Offsets   offsets.Table
	Protector Protector

	mu      sync.Mutex
	patched map[offsets.Name]uintptr
	order   []offsets.Name
}

// Patch stores fn in the slot named name and returns the value it replaced.
func (a *Applier) Patch(name offsets.Name, fn uintptr) (old uintptr, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.patched[name]; ok {
		return 0, errors.WithMessagef(ErrAlreadyPatched, "%s", name)
	}
	addr, err := a.slot(name)
	if err != nil {
		return 0, err
	}
	old, err = a.write(addr, fn)
	if err != nil {
		return 0, errors.WithMessagef(err, "patch %s", name)
	}

	if a.patched == nil {
		a.patched = make(map[offsets.Name]uintptr)
	}
	a.patched[name] = old
	a.order = append(a.order, name)
	return old, nil
}

// Restore writes back the value a slot held before Patch.
func (a *Applier) Restore(name offsets.Name) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	old, ok := a.patched[name]
	if !ok {
		return errors.WithMessagef(ErrNotPatched, "%s", name)
	}
	addr, err := a.slot(name)
	if err != nil {
		return err
	}
	if _, err := a.write(addr, old); err != nil {
		return errors.WithMessagef(err, "restore %s", name)
	}
	delete(a.patched, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

// RestoreAll restores every patched slot, last patched first.
func (a *Applier) RestoreAll() error {
	a.mu.Lock()
	names := append([]offsets.Name(nil), a.order...)
	a.mu.Unlock()

	var first error
	for i := len(names) - 1; i >= 0; i-- {
		if err := a.Restore(names[i]); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Patched reports whether name has been patched.
func (a *Applier) Patched(name offsets.Name) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.patched[name]
	return ok
}

func (a *Applier) slot(name offsets.Name) (uintptr, error) {
	off, err := a.Offsets.Lookup(name)
	if err != nil {
		return 0, err
	}
	addr := a.Image.Base + off
	if !a.Image.Contains(addr, mem.PtrSize) {
		return 0, errors.WithMessagef(ErrOutsideImage, "%s at 0x%X", name, addr)
	}
	return addr, nil
}

func (a *Applier) write(addr, v uintptr) (old uintptr, err error) {
	restore, err := a.Protector.Unprotect(addr, mem.PtrSize)
	if err != nil {
		return 0, err
	}
	p := mem.Pointer(addr)
	old = mem.Uintptr(p, 0)
	mem.PutUintptr(p, 0, v)
	if err := restore(); err != nil {
		return old, errors.WithMessage(err, "restore protection")
	}
	return old, nil
}
