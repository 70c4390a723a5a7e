package xaudio2

import (
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func Test_ParseGUID(t *testing.T) {
	g, err := ParseGUID("{F5E01117-D6C4-485A-A3F5-695196F3DBFA}")
	require.NoError(t, err)
	require.Equal(t, uint32(0xF5E01117), g.Data1)
	require.Equal(t, uint16(0xD6C4), g.Data2)
	require.Equal(t, uint16(0x485A), g.Data3)
	require.Equal(t, [8]byte{0xA3, 0xF5, 0x69, 0x51, 0x96, 0xF3, 0xDB, 0xFA}, g.Data4)
	require.Equal(t, "F5E01117-D6C4-485A-A3F5-695196F3DBFA", g.String())

	for _, s := range []string{"", "F5E01117", "F5E01117-D6C4-485A-A3F5-695196F3DBFZ", "F5E011170-6C4-485A-A3F5-695196F3DBFA"} {
		_, err := ParseGUID(s)
		require.Error(t, err, s)
	}
	require.Panics(t, func() { MustParseGUID("nope") })
}

func Test_Layout(t *testing.T) {
	require.Equal(t, uintptr(16), unsafe.Sizeof(GUID{}))
	require.Equal(t, uintptr(12), unsafe.Sizeof(FilterParameters{}))
	require.Equal(t, uintptr(16), unsafe.Sizeof(VoiceDetails{}))
	require.Equal(t, uintptr(24), unsafe.Sizeof(DebugConfiguration{}))

	var w WaveFormatEx
	require.Equal(t, uintptr(4), unsafe.Offsetof(w.SamplesPerSec))
	require.Equal(t, uintptr(12), unsafe.Offsetof(w.BlockAlign))
	require.Equal(t, uintptr(16), unsafe.Offsetof(w.Size))
}

func Test_HRESULT(t *testing.T) {
	require.True(t, E_FAIL.Failed())
	require.False(t, S_OK.Failed())
	require.NoError(t, Check(0))
	require.NoError(t, Check(1))
	require.Equal(t, XAUDIO2_E_INVALID_CALL, Check(uintptr(0x88960001)))

	require.Equal(t, S_OK, Result(nil))
	require.Equal(t, E_INVALIDARG, Result(errors.Wrap(E_INVALIDARG, "send list")))
	require.Equal(t, E_FAIL, Result(errors.New("boom")))
	require.Equal(t, "HRESULT 0x80001234", HRESULT(0x80001234).Error())
}
