package xaudio27

import (
	"unsafe"

	"xaudioshim/internal/xaudio2"
)

type fakeBackend struct {
	engine    *fakeEngine
	createErr error
	flags     uint32
	processor uint32

	fxCalls []xaudio2.GUID
	fx      unsafe.Pointer
}

func (b *fakeBackend) Create(flags, processor uint32) (xaudio2.Engine, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.flags, b.processor = flags, processor
	b.engine = &fakeEngine{}
	return b.engine, nil
}

func (b *fakeBackend) CreateFX(clsid *xaudio2.GUID, initData unsafe.Pointer, initDataSize uint32) (unsafe.Pointer, error) {
	b.fxCalls = append(b.fxCalls, *clsid)
	return b.fx, nil
}

type fakeEngine struct {
	debug        xaudio2.DebugConfiguration
	callback     unsafe.Pointer
	unregistered unsafe.Pointer
	released     bool
	started      bool
	committed    uint32

	flags     uint32
	ratio     float32
	sends     *xaudio2.VoiceSends
	category  uint32
	deviceID  *uint16
	voices    []*fakeVoice
	createErr error
}

func (e *fakeEngine) RegisterForCallbacks(callback unsafe.Pointer) error {
	e.callback = callback
	return nil
}

func (e *fakeEngine) UnregisterForCallbacks(callback unsafe.Pointer) {
	e.unregistered = callback
}

func (e *fakeEngine) newVoice(channels, sampleRate, flags uint32) *fakeVoice {
	v := &fakeVoice{channels: channels, sampleRate: sampleRate, flags: flags}
	e.voices = append(e.voices, v)
	return v
}

func (e *fakeEngine) CreateSourceVoice(format *xaudio2.WaveFormatEx, flags uint32, maxFrequencyRatio float32,
	callback unsafe.Pointer, sends *xaudio2.VoiceSends, chain *xaudio2.EffectChain) (xaudio2.SourceVoice, error) {
	if e.createErr != nil {
		return nil, e.createErr
	}
	e.flags, e.ratio, e.sends = flags, maxFrequencyRatio, sends
	return e.newVoice(uint32(format.Channels), format.SamplesPerSec, flags), nil
}

func (e *fakeEngine) CreateSubmixVoice(channels, sampleRate, flags, stage uint32,
	sends *xaudio2.VoiceSends, chain *xaudio2.EffectChain) (xaudio2.SubmixVoice, error) {
	if e.createErr != nil {
		return nil, e.createErr
	}
	e.flags, e.sends = flags, sends
	return e.newVoice(channels, sampleRate, flags), nil
}

func (e *fakeEngine) CreateMasteringVoice(channels, sampleRate, flags uint32, deviceID *uint16,
	chain *xaudio2.EffectChain, category uint32) (xaudio2.MasteringVoice, error) {
	if e.createErr != nil {
		return nil, e.createErr
	}
	e.flags, e.deviceID, e.category = flags, deviceID, category
	return e.newVoice(channels, sampleRate, flags), nil
}

func (e *fakeEngine) StartEngine() error { e.started = true; return nil }
func (e *fakeEngine) StopEngine() { e.started = false }
func (e *fakeEngine) CommitChanges(operationSet uint32) error { e.committed = operationSet; return nil }
func (e *fakeEngine) GetPerformanceData(out *xaudio2.PerformanceData) {}
func (e *fakeEngine) SetDebugConfiguration(cfg *xaudio2.DebugConfiguration) { e.debug = *cfg }
func (e *fakeEngine) Release() uint32 { e.released = true; return 0 }

// fakeVoice serves as every kind of 2.9 voice.
type fakeVoice struct {
	channels, sampleRate, flags uint32

	sends        *xaudio2.VoiceSends
	volume       float32
	ratio        float32
	operationSet uint32
	channelVols  []float32
	matrix       []float32
	dest         xaudio2.Voice
	stateFlags   uint32
	wma          *xaudio2.BufferWMA
	started      bool

	destroyed bool
	onDestroy func()
	panicOn   string
}

func (v *fakeVoice) GetVoiceDetails(out *xaudio2.VoiceDetails) {
	*out = xaudio2.VoiceDetails{
		CreationFlags:   v.flags,
		ActiveFlags:     0xFFFF,
		InputChannels:   v.channels,
		InputSampleRate: v.sampleRate,
	}
}

func (v *fakeVoice) SetOutputVoices(sends *xaudio2.VoiceSends) error { v.sends = sends; return nil }
func (v *fakeVoice) SetEffectChain(chain *xaudio2.EffectChain) error { return nil }
func (v *fakeVoice) EnableEffect(index, operationSet uint32) error { return nil }
func (v *fakeVoice) DisableEffect(index, operationSet uint32) error { return nil }
func (v *fakeVoice) GetEffectState(index uint32) bool { return index == 1 }

func (v *fakeVoice) SetEffectParameters(index uint32, params unsafe.Pointer, size, operationSet uint32) error {
	return nil
}

func (v *fakeVoice) GetEffectParameters(index uint32, params unsafe.Pointer, size uint32) error {
	return xaudio2.E_INVALIDARG
}

func (v *fakeVoice) SetFilterParameters(params *xaudio2.FilterParameters, operationSet uint32) error {
	return nil
}

func (v *fakeVoice) GetFilterParameters(out *xaudio2.FilterParameters) {}

func (v *fakeVoice) SetOutputFilterParameters(dest xaudio2.Voice, params *xaudio2.FilterParameters, operationSet uint32) error {
	v.dest = dest
	return nil
}

func (v *fakeVoice) GetOutputFilterParameters(dest xaudio2.Voice, out *xaudio2.FilterParameters) {}

func (v *fakeVoice) SetVolume(volume float32, operationSet uint32) error {
	v.volume, v.operationSet = volume, operationSet
	return nil
}

func (v *fakeVoice) GetVolume() float32 { return v.volume }

func (v *fakeVoice) SetChannelVolumes(volumes []float32, operationSet uint32) error {
	v.channelVols = append([]float32(nil), volumes...)
	return nil
}

func (v *fakeVoice) GetChannelVolumes(volumes []float32) { copy(volumes, v.channelVols) }

func (v *fakeVoice) SetOutputMatrix(dest xaudio2.Voice, sourceChannels, destChannels uint32, matrix []float32, operationSet uint32) error {
	v.dest = dest
	v.matrix = append([]float32(nil), matrix...)
	return nil
}

func (v *fakeVoice) GetOutputMatrix(dest xaudio2.Voice, sourceChannels, destChannels uint32, matrix []float32) {
	copy(matrix, v.matrix)
}

func (v *fakeVoice) DestroyVoice() {
	if v.onDestroy != nil {
		v.onDestroy()
	}
	v.destroyed = true
}

func (v *fakeVoice) Start(flags, operationSet uint32) error {
	if v.panicOn == "Start" {
		panic("fake voice")
	}
	v.started = true
	return nil
}

func (v *fakeVoice) Stop(flags, operationSet uint32) error { v.started = false; return nil }

func (v *fakeVoice) SubmitSourceBuffer(buffer *xaudio2.Buffer, wma *xaudio2.BufferWMA) error {
	v.wma = wma
	return nil
}

func (v *fakeVoice) FlushSourceBuffers() error { return nil }
func (v *fakeVoice) Discontinuity() error { return nil }
func (v *fakeVoice) ExitLoop(operationSet uint32) error { return nil }
func (v *fakeVoice) GetState(out *xaudio2.VoiceState, flags uint32) { v.stateFlags = flags + 1 }

func (v *fakeVoice) SetFrequencyRatio(ratio float32, operationSet uint32) error {
	v.ratio = ratio
	return nil
}

func (v *fakeVoice) GetFrequencyRatio() float32 { return v.ratio }
func (v *fakeVoice) SetSourceSampleRate(sampleRate uint32) error { v.sampleRate = sampleRate; return nil }
func (v *fakeVoice) GetChannelMask() (uint32, error) { return 0x3, nil }
