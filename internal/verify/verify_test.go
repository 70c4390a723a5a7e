package verify

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// buildPE returns a minimal PE32+ file with one section holding code.
func buildPE(t *testing.T, name string, code []byte, rawSize uint32) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian

	dos := make([]byte, 0x40)
	copy(dos, "MZ")
	le.PutUint32(dos[0x3C:], 0x40)
	b.Write(dos)
	b.WriteString("PE\x00\x00")

	require.NoError(t, binary.Write(&b, le, pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_AMD64,
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(pe.OptionalHeader64{})),
		Characteristics:      pe.IMAGE_FILE_EXECUTABLE_IMAGE | pe.IMAGE_FILE_LARGE_ADDRESS_AWARE,
	}))
	require.NoError(t, binary.Write(&b, le, pe.OptionalHeader64{
		Magic:               0x20b,
		AddressOfEntryPoint: 0x1000,
		BaseOfCode:          0x1000,
		ImageBase:           0x140000000,
		SectionAlignment:    0x1000,
		FileAlignment:       0x200,
		SizeOfImage:         0x2000,
		SizeOfHeaders:       0x200,
		Subsystem:           pe.IMAGE_SUBSYSTEM_WINDOWS_GUI,
		NumberOfRvaAndSizes: 16,
	}))

	var sh pe.SectionHeader32
	copy(sh.Name[:], name)
	sh.VirtualSize = uint32(len(code))
	sh.VirtualAddress = 0x1000
	sh.SizeOfRawData = rawSize
	sh.PointerToRawData = 0x200
	sh.Characteristics = pe.IMAGE_SCN_CNT_CODE | pe.IMAGE_SCN_MEM_EXECUTE | pe.IMAGE_SCN_MEM_READ
	require.NoError(t, binary.Write(&b, le, sh))

	out := make([]byte, 0x400)
	copy(out, b.Bytes())
	copy(out[0x200:], code)
	return out
}

func code() []byte {
	c := make([]byte, 0x200)
	copy(c, []byte{0x48, 0x83, 0xEC, 0x28, 0x33, 0xC0, 0x48, 0x83, 0xC4, 0x28, 0xC3})
	return c
}

func Test_TextSection(t *testing.T) {
	img := buildPE(t, ".text", code(), 0x200)

	text, err := TextSection(img)
	require.NoError(t, err)
	require.Equal(t, code(), text)
}

func Test_Verify(t *testing.T) {
	img := buildPE(t, ".text", code(), 0x200)
	want := Digest(code())

	t.Run("match", func(t *testing.T) {
		v := &Verifier{Known: [][32]byte{{1}, want}}
		sum, err := v.Verify(img)
		require.NoError(t, err)
		require.Equal(t, want, sum)
	})

	t.Run("mismatch", func(t *testing.T) {
		v := &Verifier{Known: [][32]byte{{1}}}
		sum, err := v.Verify(img)
		require.True(t, errors.Is(err, ErrUnknownBuild))
		require.Equal(t, want, sum)
	})

	t.Run("no known builds", func(t *testing.T) {
		_, err := (&Verifier{}).Verify(img)
		require.True(t, errors.Is(err, ErrUnknownBuild))
	})

	t.Run("one byte differs", func(t *testing.T) {
		c := code()
		c[0x100] ^= 0xFF
		v := &Verifier{Known: [][32]byte{want}}
		_, err := v.Verify(buildPE(t, ".text", c, 0x200))
		require.True(t, errors.Is(err, ErrUnknownBuild))
	})
}

func Test_VerifyInvalid(t *testing.T) {
	v := &Verifier{Known: [][32]byte{Digest(code())}}

	_, err := v.Verify(bytes.Repeat([]byte{0xCC}, 0x400))
	require.True(t, errors.Is(err, ErrNotPE))

	_, err = v.Verify(buildPE(t, ".data", code(), 0x200))
	require.True(t, errors.Is(err, ErrNoText))

	_, err = v.Verify(buildPE(t, ".text", code(), 0x1000))
	require.Error(t, err)
}

func Test_VerifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "UDK.exe")
	require.NoError(t, os.WriteFile(path, buildPE(t, ".text", code(), 0x200), 0o644))

	v := &Verifier{Known: [][32]byte{Digest(code())}}
	sum, err := v.VerifyFile(path)
	require.NoError(t, err)
	require.Equal(t, Digest(code()), sum)

	_, err = v.VerifyFile(filepath.Join(t.TempDir(), "missing.exe"))
	require.Error(t, err)
}
