//go:build windows

package hook

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"xaudioshim/internal/mem"
)

// prologueWindow is how much of the target is decoded: enough for the
// longest run of instructions that can cover a near jmp.
const prologueWindow = patchSize + 15

// relayReserve is the space kept for the relay at the start of the page.
const relayReserve = 16

// Inline is the Interceptor for the current process.
type Inline struct{}

type inlinePatch struct {
	target     uintptr
	page       uintptr
	trampoline uintptr
	patch      []byte
	original   []byte
}

func (Inline) Prepare(target, detour uintptr) (Patch, error) {
	mode := int(mem.PtrSize) * 8
	code := append([]byte(nil), mem.HostBytes(target, prologueWindow)...)

	page, err := allocNear(target)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (Patch, error) {
		_ = windows.VirtualFree(page, 0, windows.MEM_RELEASE)
		return nil, err
	}

	tramp := page + relayReserve
	body, stolen, err := relocate(code, target, tramp, mode, patchSize)
	if err != nil {
		return fail(err)
	}
	back, err := jumpBack(tramp+uintptr(len(body)), target+uintptr(stolen), mode)
	if err != nil {
		return fail(err)
	}
	copy(mem.HostBytes(tramp, len(body)+len(back)), append(body, back...))

	// amd64 reaches the detour through a relay next to the target
	dest := detour
	if mode == 64 {
		r := relay(detour)
		copy(mem.HostBytes(page, len(r)), r)
		dest = page
	}
	jmp, err := nearJump(target, dest)
	if err != nil {
		return fail(err)
	}
	if err := flushInstructionCache(page, relayReserve+uintptr(len(body)+len(back))); err != nil {
		return fail(err)
	}

	return &inlinePatch{
		target:     target,
		page:       page,
		trampoline: tramp,
		patch:      padded(jmp, stolen),
		original:   code[:stolen],
	}, nil
}

func (p *inlinePatch) Trampoline() uintptr { return p.trampoline }

func (p *inlinePatch) Apply() error {
	return errors.WithMessage(writeCode(p.target, p.patch), "write detour jump")
}

func (p *inlinePatch) Revert() error {
	return errors.WithMessage(writeCode(p.target, p.original), "restore prologue")
}

func (p *inlinePatch) Release() error {
	if p.page == 0 {
		return nil
	}
	if err := windows.VirtualFree(p.page, 0, windows.MEM_RELEASE); err != nil {
		return errors.Wrap(err, "free trampoline")
	}
	p.page, p.trampoline = 0, 0
	return nil
}
