package hook

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/arch/x86/x86asm"

	"xaudioshim/internal/mem"
)

const (
	opJmpRel32 = 0xE9
	opNop      = 0x90
)

// relocate copies whole instructions from code, which lives at src, until at
// least min bytes are covered. rel32 and RIP-relative operands are rewritten
// so the copy can run at dst. It returns the copy and the number of bytes
// taken from code.
func relocate(code []byte, src, dst uintptr, mode, min int) ([]byte, int, error) {
	var out []byte
	off := 0
	for off < min {
		if off >= len(code) {
			return nil, 0, errors.WithMessage(ErrUnsupportedPrologue, "prologue truncated")
		}
		inst, err := x86asm.Decode(code[off:], mode)
		if err != nil {
			return nil, 0, errors.WithMessagef(ErrUnsupportedPrologue, "decode at +%d: %s", off, err)
		}
		switch inst.Op {
		case x86asm.RET, x86asm.LRET, x86asm.IRET, x86asm.IRETD, x86asm.IRETQ,
			x86asm.INT, x86asm.INTO, x86asm.UD2, x86asm.HLT:
			return nil, 0, errors.WithMessagef(ErrUnsupportedPrologue, "%s at +%d", inst.Op, off)
		}

		raw := append([]byte(nil), code[off:off+inst.Len]...)
		switch inst.PCRel {
		case 0:
		case 4:
			disp := int64(int32(binary.LittleEndian.Uint32(raw[inst.PCRelOff:])))
			abs := int64(src) + int64(off+inst.Len) + disp
			rel := abs - (int64(dst) + int64(len(out)+inst.Len))
			if rel < math.MinInt32 || rel > math.MaxInt32 {
				return nil, 0, errors.WithMessagef(ErrUnsupportedPrologue, "%s at +%d out of reach", inst.Op, off)
			}
			binary.LittleEndian.PutUint32(raw[inst.PCRelOff:], uint32(int32(rel)))
		default:
			return nil, 0, errors.WithMessagef(ErrUnsupportedPrologue, "short relative %s at +%d", inst.Op, off)
		}
		out = append(out, raw...)
		off += inst.Len
	}
	return out, off, nil
}

// nearJump encodes `jmp rel32` placed at from.
func nearJump(from, to uintptr) ([]byte, error) {
	rel := int64(to) - int64(from+patchSize)
	// rel32 wraps around a 32 bit address space
	if mem.PtrSize == 8 && (rel < math.MinInt32 || rel > math.MaxInt32) {
		return nil, errors.Errorf("jmp from 0x%X to 0x%X out of reach", from, to)
	}
	b := make([]byte, patchSize)
	b[0] = opJmpRel32
	binary.LittleEndian.PutUint32(b[1:], uint32(int32(rel)))
	return b, nil
}

// farJump encodes `jmp qword ptr [rip+0]` followed by the absolute target.
func farJump(to uintptr) []byte {
	b := []byte{0xFF, 0x25, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(b[6:], uint64(to))
	return b
}

// relay encodes `mov r10, imm64; jmp r10`.
func relay(to uintptr) []byte {
	b := []byte{0x49, 0xBA, 0, 0, 0, 0, 0, 0, 0, 0, 0x41, 0xFF, 0xE2}
	binary.LittleEndian.PutUint64(b[2:], uint64(to))
	return b
}

// jumpBack encodes the jump from the end of a trampoline at `at` to `to`.
func jumpBack(at, to uintptr, mode int) ([]byte, error) {
	if mode == 64 {
		return farJump(to), nil
	}
	return nearJump(at, to)
}

// padded fills b with nops up to n bytes.
func padded(b []byte, n int) []byte {
	for len(b) < n {
		b = append(b, opNop)
	}
	return b
}
