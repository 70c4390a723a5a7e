// Package verify identifies the host build by hashing the code section of
// its executable on disk.
package verify

import (
	"bytes"
	"crypto/sha256"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/saferwall/pe"
)

var (
	ErrNotPE        = errors.New("not a PE image")
	ErrNoText       = errors.New("no .text section")
	ErrUnknownBuild = errors.New("unknown host build")
)

// TextSection returns the raw file bytes of the .text section. The result
// aliases image.
func TextSection(image []byte) ([]byte, error) {
	f, err := pe.NewBytes(image, &pe.Options{Fast: true})
	if err != nil {
		return nil, errors.WithMessage(ErrNotPE, err.Error())
	}
	if err := f.Parse(); err != nil {
		return nil, errors.WithMessage(ErrNotPE, err.Error())
	}

	for _, s := range f.Sections {
		h := s.Header
		if string(bytes.TrimRight(h.Name[:], "\x00")) != ".text" {
			continue
		}
		start, size := uint64(h.PointerToRawData), uint64(h.SizeOfRawData)
		if start+size > uint64(len(image)) {
			return nil, errors.Errorf(".text raw range 0x%X+0x%X outside a file of 0x%X bytes",
				start, size, len(image))
		}
		return image[start : start+size], nil
	}
	return nil, ErrNoText
}

// Digest is the identity of a code section.
func Digest(code []byte) [32]byte {
	return sha256.Sum256(code)
}

// Verifier accepts images whose .text digest is one of Known.
type Verifier struct {
	Known [][32]byte
}

// New returns a Verifier for the builds supported on this architecture.
func New() *Verifier {
	return &Verifier{Known: Known()}
}

// Verify checks an in-memory copy of the executable file.
func (v *Verifier) Verify(image []byte) ([32]byte, error) {
	text, err := TextSection(image)
	if err != nil {
		return [32]byte{}, err
	}
	sum := Digest(text)
	for _, k := range v.Known {
		if k == sum {
			return sum, nil
		}
	}
	return sum, errors.WithMessagef(ErrUnknownBuild, ".text sha256 %x", sum[:])
}

// VerifyFile maps path read-only and verifies it.
func (v *Verifier) VerifyFile(path string) ([32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "open host executable")
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "map host executable")
	}
	defer m.Unmap()

	return v.Verify(m)
}
