package xaudio2

import "unsafe"

// Backend creates XAudio 2.9 engines and effects.
type Backend interface {
	Create(flags, processor uint32) (Engine, error)
	CreateFX(clsid *GUID, initData unsafe.Pointer, initDataSize uint32) (unsafe.Pointer, error)
}

// Engine is IXAudio2 (2.9).
type Engine interface {
	// RegisterForCallbacks takes a raw IXAudio2EngineCallback.
	RegisterForCallbacks(callback unsafe.Pointer) error
	UnregisterForCallbacks(callback unsafe.Pointer)
	CreateSourceVoice(format *WaveFormatEx, flags uint32, maxFrequencyRatio float32,
		callback unsafe.Pointer, sends *VoiceSends, chain *EffectChain) (SourceVoice, error)
	CreateSubmixVoice(channels, sampleRate, flags, stage uint32,
		sends *VoiceSends, chain *EffectChain) (SubmixVoice, error)
	CreateMasteringVoice(channels, sampleRate, flags uint32, deviceID *uint16,
		chain *EffectChain, category uint32) (MasteringVoice, error)
	StartEngine() error
	StopEngine()
	CommitChanges(operationSet uint32) error
	GetPerformanceData(out *PerformanceData)
	SetDebugConfiguration(cfg *DebugConfiguration)
	Release() uint32
}

// Voice is IXAudio2Voice (2.9). A nil destination means NULL.
type Voice interface {
	GetVoiceDetails(out *VoiceDetails)
	SetOutputVoices(sends *VoiceSends) error
	SetEffectChain(chain *EffectChain) error
	EnableEffect(index, operationSet uint32) error
	DisableEffect(index, operationSet uint32) error
	GetEffectState(index uint32) bool
	SetEffectParameters(index uint32, params unsafe.Pointer, size, operationSet uint32) error
	GetEffectParameters(index uint32, params unsafe.Pointer, size uint32) error
	SetFilterParameters(params *FilterParameters, operationSet uint32) error
	GetFilterParameters(out *FilterParameters)
	SetOutputFilterParameters(dest Voice, params *FilterParameters, operationSet uint32) error
	GetOutputFilterParameters(dest Voice, out *FilterParameters)
	SetVolume(volume float32, operationSet uint32) error
	GetVolume() float32
	SetChannelVolumes(volumes []float32, operationSet uint32) error
	GetChannelVolumes(volumes []float32)
	SetOutputMatrix(dest Voice, sourceChannels, destChannels uint32, matrix []float32, operationSet uint32) error
	GetOutputMatrix(dest Voice, sourceChannels, destChannels uint32, matrix []float32)
	DestroyVoice()
}

// SourceVoice is IXAudio2SourceVoice (2.9).
type SourceVoice interface {
	Voice
	Start(flags, operationSet uint32) error
	Stop(flags, operationSet uint32) error
	SubmitSourceBuffer(buffer *Buffer, wma *BufferWMA) error
	FlushSourceBuffers() error
	Discontinuity() error
	ExitLoop(operationSet uint32) error
	GetState(out *VoiceState, flags uint32)
	SetFrequencyRatio(ratio float32, operationSet uint32) error
	GetFrequencyRatio() float32
	SetSourceSampleRate(sampleRate uint32) error
}

// SubmixVoice is IXAudio2SubmixVoice (2.9).
type SubmixVoice interface {
	Voice
}

// MasteringVoice is IXAudio2MasteringVoice (2.9).
type MasteringVoice interface {
	Voice
	GetChannelMask() (uint32, error)
}
