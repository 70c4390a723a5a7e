package hostlog

import (
	"fmt"
	"testing"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/offsets"
)

type line struct {
	severity Severity
	text     string
}

type recorder struct{ lines []line }

func (r *recorder) Log(severity Severity, text string) {
	r.lines = append(r.lines, line{severity, text})
}

func Test_Handler(t *testing.T) {
	r := &recorder{}
	l := &log.Logger{Handler: New(r, "TotemArts Extensions", false), Level: log.DebugLevel}

	l.Info("Hooked XAudio2Create and loaded XAudio 2.7 detours")
	l.WithFields(log.Fields{"slot": "SetVolume", "hr": "0x80004001"}).Warn("unimplemented")
	l.WithError(fmt.Errorf("boom")).Error("attach")
	l.Debug("trace")

	require.Equal(t, []line{
		{Init, "TotemArts Extensions: Hooked XAudio2Create and loaded XAudio 2.7 detours"},
		{Warning, "TotemArts Extensions: unimplemented hr=0x80004001 slot=SetVolume"},
		{Error, "TotemArts Extensions: attach error=boom"},
		{Init, "TotemArts Extensions: trace"},
	}, r.lines)
}

func Test_HandlerLevel(t *testing.T) {
	r := &recorder{}
	l := &log.Logger{Handler: New(r, "", false), Level: log.WarnLevel}
	l.Info("dropped")
	l.Warn("kept")
	require.Equal(t, []line{{Warning, "kept"}}, r.lines)
}

func Test_Severity(t *testing.T) {
	require.Equal(t, Critical, severity(log.FatalLevel))
	require.Equal(t, Log, severity(log.InvalidLevel))
	require.Equal(t, Log, severity(log.Level(42)))
}

func Test_NewHostSink(t *testing.T) {
	img := hostimage.Image{Base: 0x140000000, Size: 0x4000000}
	s, err := NewHostSink(img, offsets.Table{
		offsets.LogObject:   0x03551720,
		offsets.LogFunction: 0x00246A20,
	})
	require.NoError(t, err)
	require.Equal(t, uintptr(0x143551720), s.Object)
	require.Equal(t, uintptr(0x140246A20), s.Function)

	_, err = NewHostSink(img, offsets.Table{offsets.LogObject: 0x10})
	require.True(t, errors.Is(err, offsets.ErrNoEntry))

	_, err = NewHostSink(hostimage.Image{Base: 0x400000, Size: 0x1000}, offsets.Table{
		offsets.LogObject:   0x10,
		offsets.LogFunction: 0x2000,
	})
	require.True(t, errors.Is(err, hostimage.ErrOutOfRange))
}
