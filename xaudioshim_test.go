package xaudioshim

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"xaudioshim/internal/config"
	"xaudioshim/internal/hook"
	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/hostlog"
	"xaudioshim/internal/offsets"
	"xaudioshim/internal/verify"
	"xaudioshim/internal/xaudio2"
)

type fakeVerifier struct {
	err   error
	paths []string
}

func (v *fakeVerifier) VerifyFile(path string) ([32]byte, error) {
	v.paths = append(v.paths, path)
	return [32]byte{0xF0, 0x2F}, v.err
}

type fakePatch struct {
	applied, released bool
	applies           int
	applyErr          error
}

func (p *fakePatch) Trampoline() uintptr { return 0x7000 }

func (p *fakePatch) Apply() error {
	if p.applyErr != nil {
		return p.applyErr
	}
	p.applied = true
	p.applies++
	return nil
}

func (p *fakePatch) Revert() error { p.applied = false; return nil }
func (p *fakePatch) Release() error { p.released = true; return nil }

type fakeInterceptor struct {
	prepared []uintptr
	patches  []*fakePatch
	applyErr error
}

func (in *fakeInterceptor) Prepare(target, detour uintptr) (hook.Patch, error) {
	in.prepared = append(in.prepared, target)
	p := &fakePatch{applyErr: in.applyErr}
	in.patches = append(in.patches, p)
	return p, nil
}

type fakeProtector struct{ err error }

func (p *fakeProtector) Unprotect(addr, size uintptr) (func() error, error) {
	if p.err != nil {
		return nil, p.err
	}
	return func() error { return nil }, nil
}

type fakeBackend struct{}

func (fakeBackend) Create(flags, processor uint32) (xaudio2.Engine, error) {
	return nil, errors.New("no engine")
}

func (fakeBackend) CreateFX(clsid *xaudio2.GUID, initData unsafe.Pointer, initDataSize uint32) (unsafe.Pointer, error) {
	return nil, errors.New("no effect")
}

type recorder struct{ lines []string }

func (r *recorder) Log(severity hostlog.Severity, text string) { r.lines = append(r.lines, text) }

type fixture struct {
	words       []uintptr
	verifier    *fakeVerifier
	interceptor *fakeInterceptor
	protector   *fakeProtector
	sink        *recorder
	captured    []hostimage.Image
	deps        Deps
}

const (
	slotWord = 4
	original = 0xC0FFEE
	detour   = 0xD000
	createFX = 0xF000
)

func newFixture() *fixture {
	f := &fixture{
		words:       make([]uintptr, 16),
		verifier:    &fakeVerifier{},
		interceptor: &fakeInterceptor{},
		protector:   &fakeProtector{},
		sink:        &recorder{},
	}
	f.words[slotWord] = original
	word := unsafe.Sizeof(uintptr(0))
	img := hostimage.Image{
		Base: uintptr(unsafe.Pointer(&f.words[0])),
		Size: uintptr(len(f.words)) * word,
		Path: `C:\UDK\Binaries\Win64\UDK.exe`,
	}
	f.deps = Deps{
		Locate:      func() (hostimage.Image, error) { return img, nil },
		Capture:     func(img hostimage.Image) error { f.captured = append(f.captured, img); return nil },
		Verifier:    f.verifier,
		Interceptor: f.interceptor,
		Protector:   f.protector,
		Backend:     fakeBackend{},
		HostSink: func(hostimage.Image, offsets.Table) (hostlog.Sink, error) {
			return f.sink, nil
		},
		Offsets: offsets.Table{
			offsets.XAudio2Create: 0,
			offsets.CreateFXSlot:  slotWord * word,
			offsets.LogObject:     word,
			offsets.LogFunction:   2 * word,
		},
		Detours: map[offsets.Name]uintptr{offsets.XAudio2Create: detour},
		Slots:   map[offsets.Name]uintptr{offsets.CreateFXSlot: createFX},
	}
	return f
}

func Test_AttachUnknownBuild(t *testing.T) {
	f := newFixture()
	f.verifier.err = errors.WithMessage(verify.ErrUnknownBuild, "digest")

	s, err := Attach(config.Default(), f.deps)
	require.Nil(t, s)
	require.True(t, errors.Is(err, verify.ErrUnknownBuild))
	require.Equal(t, []string{`C:\UDK\Binaries\Win64\UDK.exe`}, f.verifier.paths)
	require.Empty(t, f.captured)
	require.Empty(t, f.interceptor.prepared)
	require.Equal(t, uintptr(original), f.words[slotWord])
}

func Test_Attach(t *testing.T) {
	f := newFixture()
	cfg := config.Default()
	cfg.LogLevel = "debug"

	s, err := Attach(cfg, f.deps)
	require.NoError(t, err)
	require.Len(t, f.captured, 1)
	require.Equal(t, [32]byte{0xF0, 0x2F}, s.Digest())
	require.Equal(t, f.captured[0], s.Image())

	h, ok := s.Hook(offsets.XAudio2Create)
	require.True(t, ok)
	require.Equal(t, hook.Enabled, h.State())
	require.Equal(t, s.Image().Base, h.Target())
	require.Equal(t, uintptr(0x7000), h.Original())
	require.True(t, f.interceptor.patches[0].applied)

	require.True(t, s.Patched(offsets.CreateFXSlot))
	require.Equal(t, uintptr(createFX), f.words[slotWord])
	require.Contains(t, f.sink.lines, fmt.Sprintf("TotemArts Extensions: attached base=0x%X hooks=1 slots=1", s.Image().Base))

	require.NoError(t, s.Detach())
	require.Equal(t, uintptr(original), f.words[slotWord])
	require.Equal(t, hook.Closed, h.State())
	require.True(t, f.interceptor.patches[0].released)
}

func Test_AttachRollback(t *testing.T) {
	t.Run("enable", func(t *testing.T) {
		f := newFixture()
		f.interceptor.applyErr = errors.New("write denied")

		_, err := Attach(config.Default(), f.deps)
		require.ErrorContains(t, err, "write denied")
		require.Len(t, f.interceptor.patches, 1)
		require.True(t, f.interceptor.patches[0].released)
		require.Equal(t, uintptr(original), f.words[slotWord])
	})

	t.Run("patch", func(t *testing.T) {
		f := newFixture()
		f.protector.err = errors.New("protect denied")

		_, err := Attach(config.Default(), f.deps)
		require.ErrorContains(t, err, "protect denied")
		p := f.interceptor.patches[0]
		require.Zero(t, p.applies)
		require.False(t, p.applied)
		require.True(t, p.released)
		require.Equal(t, uintptr(original), f.words[slotWord])
	})

	t.Run("no hook offset", func(t *testing.T) {
		f := newFixture()
		delete(f.deps.Offsets, offsets.XAudio2Create)
		delete(f.deps.Offsets, offsets.CreateFXSlot)

		_, err := Attach(config.Default(), f.deps)
		require.True(t, errors.Is(err, offsets.ErrNoEntry))
		require.Empty(t, f.interceptor.prepared)
		require.Equal(t, uintptr(original), f.words[slotWord])
	})

	t.Run("hook outside image", func(t *testing.T) {
		f := newFixture()
		f.deps.Offsets[offsets.XAudio2Create] = 0x100000

		_, err := Attach(config.Default(), f.deps)
		require.True(t, errors.Is(err, hook.ErrOutsideImage))
		require.Empty(t, f.interceptor.prepared)
	})

	t.Run("locate", func(t *testing.T) {
		f := newFixture()
		f.deps.Locate = func() (hostimage.Image, error) { return hostimage.Image{}, errors.New("no module") }

		_, err := Attach(config.Default(), f.deps)
		require.ErrorContains(t, err, "no module")
		require.Empty(t, f.verifier.paths)
	})
}

func Test_AttachMissingDep(t *testing.T) {
	f := newFixture()
	f.deps.Protector = nil
	_, err := Attach(config.Default(), f.deps)
	require.True(t, errors.Is(err, ErrMissingDep))
	require.Empty(t, f.verifier.paths)
}
