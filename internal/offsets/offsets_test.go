package offsets

import (
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func Test_Lookup(t *testing.T) {
	tab := Table{XAudio2Create: 0x10}
	off, err := tab.Lookup(XAudio2Create)
	require.NoError(t, err)
	require.Equal(t, uintptr(0x10), off)

	_, err = tab.Lookup(LogObject)
	require.True(t, errors.Is(err, ErrNoEntry))
	require.Contains(t, err.Error(), string(LogObject))
}

func Test_Current(t *testing.T) {
	tab := Current()
	tab[XAudio2Create] = 1
	require.NotEqual(t, uintptr(1), current[XAudio2Create])

	switch runtime.GOARCH {
	case "amd64":
		for _, name := range append(Hooks(), append(Slots(), LogObject, LogFunction)...) {
			_, err := Current().Lookup(name)
			require.NoError(t, err, name)
		}
	case "386":
		for _, name := range []Name{LogObject, LogFunction} {
			_, err := Current().Lookup(name)
			require.NoError(t, err, name)
		}
	default:
		require.Empty(t, Current())
	}
}
