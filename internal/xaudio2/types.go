// Package xaudio2 describes the XAudio 2.9 objects the shim delegates to and
// binds them on windows.
//
// xaudio2.h packs every structure with pack(1). Structures whose 2.7 and 2.9
// layouts are identical are kept opaque here: the shim only ever moves them by
// pointer.
package xaudio2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type (
	UINT32 = uint32
	BOOL   = int32
)

// WaveFormatEx is WAVEFORMATEX. Field offsets match the packed C layout; only
// the trailing padding differs, so it is safe to read through a host pointer.
type WaveFormatEx struct {
	FormatTag      uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	Size           uint16
}

// WaveFormatExtensible is WAVEFORMATEXTENSIBLE, encoded with encoding/binary
// to keep the packed layout.
type WaveFormatExtensible struct {
	Format             WaveFormatEx
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          GUID
}

// Buffer is XAUDIO2_BUFFER.
type Buffer struct{ _ byte }

// BufferWMA is XAUDIO2_BUFFER_WMA.
type BufferWMA struct{ _ byte }

// EffectChain is XAUDIO2_EFFECT_CHAIN.
type EffectChain struct{ _ byte }

// VoiceState is XAUDIO2_VOICE_STATE.
type VoiceState struct{ _ byte }

// PerformanceData is XAUDIO2_PERFORMANCE_DATA.
type PerformanceData struct{ _ byte }

// FilterParameters is XAUDIO2_FILTER_PARAMETERS.
type FilterParameters struct {
	Type      uint32
	Frequency float32
	OneOverQ  float32
}

// VoiceDetails is the 2.9 XAUDIO2_VOICE_DETAILS. 2.8 added ActiveFlags.
type VoiceDetails struct {
	CreationFlags   uint32
	ActiveFlags     uint32
	InputChannels   uint32
	InputSampleRate uint32
}

// DebugConfiguration is XAUDIO2_DEBUG_CONFIGURATION.
type DebugConfiguration struct {
	TraceMask       uint32
	BreakMask       uint32
	LogThreadID     BOOL
	LogFileline     BOOL
	LogFunctionName BOOL
	LogTiming       BOOL
}

// SendDescriptor is XAUDIO2_SEND_DESCRIPTOR. A nil OutputVoice is forwarded
// as NULL.
type SendDescriptor struct {
	Flags       uint32
	OutputVoice Voice
}

// VoiceSends is XAUDIO2_VOICE_SENDS. A nil *VoiceSends means "no list".
type VoiceSends struct {
	Sends []SendDescriptor
}

const (
	LOG_ERRORS   = 0x0001
	LOG_WARNINGS = 0x0002

	DEFAULT_PROCESSOR = 0x00000001
	NTDDI_WIN10       = 0x0A000000

	AudioCategory_GameMedia = 6

	SEND_USEFILTER = 0x0080
)

// GUID is a COM GUID in its in-memory layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// ParseGUID parses "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx", braces optional.
func ParseGUID(s string) (GUID, error) {
	var g GUID
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	parts := strings.Split(s, "-")
	if len(parts) != 5 || len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 ||
		len(parts[3]) != 4 || len(parts[4]) != 12 {
		return g, errors.Errorf("malformed guid %q", s)
	}
	d1, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return g, errors.Wrapf(err, "malformed guid %q", s)
	}
	d2, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return g, errors.Wrapf(err, "malformed guid %q", s)
	}
	d3, err := strconv.ParseUint(parts[2], 16, 16)
	if err != nil {
		return g, errors.Wrapf(err, "malformed guid %q", s)
	}
	tail := parts[3] + parts[4]
	for i := 0; i < 8; i++ {
		b, err := strconv.ParseUint(tail[i*2:i*2+2], 16, 8)
		if err != nil {
			return g, errors.Wrapf(err, "malformed guid %q", s)
		}
		g.Data4[i] = byte(b)
	}
	g.Data1, g.Data2, g.Data3 = uint32(d1), uint16(d2), uint16(d3)
	return g, nil
}

// MustParseGUID is ParseGUID for constants.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g GUID) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}
