package xaudio27

import (
	"encoding/binary"
	"unsafe"

	"github.com/apex/log"

	"xaudioshim/internal/mem"
	"xaudioshim/internal/xaudio2"
)

// legacyVoice is implemented by every voice record.
type legacyVoice interface {
	base() *voice
}

// voice is the legacy IXAudio2Voice over a 2.9 voice.
type voice struct {
	shape Shape
	inner xaudio2.Voice
}

func (v *voice) base() *voice { return v }

type sourceVoice struct {
	voice
	src xaudio2.SourceVoice
}

func newSourceVoice(v xaudio2.SourceVoice) *sourceVoice {
	return &sourceVoice{voice: voice{shape: ShapeSourceVoice, inner: v}, src: v}
}

func sourceOf(this unsafe.Pointer) (*sourceVoice, bool) {
	o, ok := unwrap(this)
	if !ok {
		return nil, false
	}
	s, ok := o.impl.(*sourceVoice)
	return s, ok
}

func self(this unsafe.Pointer) (*voice, bool) {
	v, ok := voiceOf(this)
	if !ok {
		return nil, false
	}
	return v.base(), true
}

func floats(p unsafe.Pointer, n uintptr) []float32 {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(p), n)
}

func putFloat(p unsafe.Pointer, v float32) {
	if p != nil {
		binary.LittleEndian.PutUint32(mem.View(p, 4), mem.To[uint32](v))
	}
}

// voiceGetVoiceDetails writes the 2.7 layout, which has no ActiveFlags.
func voiceGetVoiceDetails(this, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetVoiceDetails", &ret)
	v, ok := self(this)
	if !ok || out == nil {
		return 0
	}
	var d xaudio2.VoiceDetails
	v.inner.GetVoiceDetails(&d)
	b := mem.View(out, 12)
	binary.LittleEndian.PutUint32(b[0:], d.CreationFlags)
	binary.LittleEndian.PutUint32(b[4:], d.InputChannels)
	binary.LittleEndian.PutUint32(b[8:], d.InputSampleRate)
	return 0
}

func voiceSetOutputVoices(this, sends unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.SetOutputVoices", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetOutputVoices")
	}
	if v.shape == ShapeMasteringVoice {
		return eInvalidCall
	}
	list, err := translateSends(sends)
	if err != nil {
		return hr(err)
	}
	return hr(v.inner.SetOutputVoices(list))
}

func voiceSetEffectChain(this, chain unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.SetEffectChain", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetEffectChain")
	}
	return hr(v.inner.SetEffectChain((*xaudio2.EffectChain)(chain)))
}

func voiceEnableEffect(this unsafe.Pointer, index, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.EnableEffect", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.EnableEffect")
	}
	return hr(v.inner.EnableEffect(uint32(index), uint32(operationSet)))
}

func voiceDisableEffect(this unsafe.Pointer, index, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.DisableEffect", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.DisableEffect")
	}
	return hr(v.inner.DisableEffect(uint32(index), uint32(operationSet)))
}

func voiceGetEffectState(this unsafe.Pointer, index uintptr, enabled unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetEffectState", &ret)
	v, ok := self(this)
	if !ok || enabled == nil {
		return 0
	}
	var b uint32
	if v.inner.GetEffectState(uint32(index)) {
		b = 1
	}
	binary.LittleEndian.PutUint32(mem.View(enabled, 4), b)
	return 0
}

func voiceSetEffectParameters(this unsafe.Pointer, index uintptr, params unsafe.Pointer, size, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.SetEffectParameters", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetEffectParameters")
	}
	return hr(v.inner.SetEffectParameters(uint32(index), params, uint32(size), uint32(operationSet)))
}

func voiceGetEffectParameters(this unsafe.Pointer, index uintptr, params unsafe.Pointer, size uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.GetEffectParameters", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.GetEffectParameters")
	}
	return hr(v.inner.GetEffectParameters(uint32(index), params, uint32(size)))
}

func voiceSetFilterParameters(this, params unsafe.Pointer, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.SetFilterParameters", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetFilterParameters")
	}
	return hr(v.inner.SetFilterParameters((*xaudio2.FilterParameters)(params), uint32(operationSet)))
}

func voiceGetFilterParameters(this, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetFilterParameters", &ret)
	if v, ok := self(this); ok && out != nil {
		v.inner.GetFilterParameters((*xaudio2.FilterParameters)(out))
	}
	return 0
}

func voiceSetOutputFilterParameters(this, dest, params unsafe.Pointer, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.SetOutputFilterParameters", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetOutputFilterParameters")
	}
	d, err := destination(dest)
	if err != nil {
		return hr(err)
	}
	return hr(v.inner.SetOutputFilterParameters(d, (*xaudio2.FilterParameters)(params), uint32(operationSet)))
}

func voiceGetOutputFilterParameters(this, dest, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetOutputFilterParameters", &ret)
	v, ok := self(this)
	if !ok || out == nil {
		return 0
	}
	d, err := destination(dest)
	if err != nil {
		log.WithError(err).Warn("GetOutputFilterParameters")
		return 0
	}
	v.inner.GetOutputFilterParameters(d, (*xaudio2.FilterParameters)(out))
	return 0
}

// voiceSetVolume receives the volume as raw float bits.
func voiceSetVolume(this unsafe.Pointer, volume, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.SetVolume", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetVolume")
	}
	return hr(v.inner.SetVolume(mem.To[float32](uint32(volume)), uint32(operationSet)))
}

func voiceGetVolume(this, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetVolume", &ret)
	if v, ok := self(this); ok {
		putFloat(out, v.inner.GetVolume())
	}
	return 0
}

func voiceSetChannelVolumes(this unsafe.Pointer, channels uintptr, volumes unsafe.Pointer, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.SetChannelVolumes", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetChannelVolumes")
	}
	if volumes == nil && uint32(channels) != 0 {
		return ePointer
	}
	return hr(v.inner.SetChannelVolumes(floats(volumes, uintptr(uint32(channels))), uint32(operationSet)))
}

func voiceGetChannelVolumes(this unsafe.Pointer, channels uintptr, volumes unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetChannelVolumes", &ret)
	if v, ok := self(this); ok && volumes != nil {
		v.inner.GetChannelVolumes(floats(volumes, uintptr(uint32(channels))))
	}
	return 0
}

func voiceSetOutputMatrix(this, dest unsafe.Pointer, sourceChannels, destChannels uintptr,
	matrix unsafe.Pointer, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2Voice.SetOutputMatrix", &ret)
	v, ok := self(this)
	if !ok {
		return badHandle("IXAudio2Voice.SetOutputMatrix")
	}
	if matrix == nil {
		return ePointer
	}
	d, err := destination(dest)
	if err != nil {
		return hr(err)
	}
	src, dst := uint32(sourceChannels), uint32(destChannels)
	return hr(v.inner.SetOutputMatrix(d, src, dst, floats(matrix, uintptr(src)*uintptr(dst)), uint32(operationSet)))
}

func voiceGetOutputMatrix(this, dest unsafe.Pointer, sourceChannels, destChannels uintptr, matrix unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.GetOutputMatrix", &ret)
	v, ok := self(this)
	if !ok || matrix == nil {
		return 0
	}
	d, err := destination(dest)
	if err != nil {
		log.WithError(err).Warn("GetOutputMatrix")
		return 0
	}
	src, dst := uint32(sourceChannels), uint32(destChannels)
	v.inner.GetOutputMatrix(d, src, dst, floats(matrix, uintptr(src)*uintptr(dst)))
	return 0
}

// voiceDestroyVoice destroys the 2.9 voice before the record goes away.
func voiceDestroyVoice(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2Voice.DestroyVoice", &ret)
	o, ok := unwrap(this)
	if !ok {
		return 0
	}
	v, ok := o.impl.(legacyVoice)
	if !ok {
		return 0
	}
	v.base().inner.DestroyVoice()
	free(o)
	return 0
}

func sourceStart(this unsafe.Pointer, flags, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.Start", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.Start")
	}
	return hr(s.src.Start(uint32(flags), uint32(operationSet)))
}

func sourceStop(this unsafe.Pointer, flags, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.Stop", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.Stop")
	}
	return hr(s.src.Stop(uint32(flags), uint32(operationSet)))
}

func sourceSubmitSourceBuffer(this, buffer, wma unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.SubmitSourceBuffer", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.SubmitSourceBuffer")
	}
	if buffer == nil {
		return ePointer
	}
	return hr(s.src.SubmitSourceBuffer((*xaudio2.Buffer)(buffer), (*xaudio2.BufferWMA)(wma)))
}

func sourceFlushSourceBuffers(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.FlushSourceBuffers", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.FlushSourceBuffers")
	}
	return hr(s.src.FlushSourceBuffers())
}

func sourceDiscontinuity(this unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.Discontinuity", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.Discontinuity")
	}
	return hr(s.src.Discontinuity())
}

func sourceExitLoop(this unsafe.Pointer, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.ExitLoop", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.ExitLoop")
	}
	return hr(s.src.ExitLoop(uint32(operationSet)))
}

// sourceGetState asks 2.9 for the full state, which is all 2.7 knows.
func sourceGetState(this, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.GetState", &ret)
	if s, ok := sourceOf(this); ok && out != nil {
		s.src.GetState((*xaudio2.VoiceState)(out), 0)
	}
	return 0
}

func sourceSetFrequencyRatio(this unsafe.Pointer, ratio, operationSet uintptr) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.SetFrequencyRatio", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.SetFrequencyRatio")
	}
	return hr(s.src.SetFrequencyRatio(mem.To[float32](uint32(ratio)), uint32(operationSet)))
}

func sourceGetFrequencyRatio(this, out unsafe.Pointer) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.GetFrequencyRatio", &ret)
	if s, ok := sourceOf(this); ok {
		putFloat(out, s.src.GetFrequencyRatio())
	}
	return 0
}

func sourceSetSourceSampleRate(this unsafe.Pointer, sampleRate uintptr) (ret uintptr) {
	defer guard("IXAudio2SourceVoice.SetSourceSampleRate", &ret)
	s, ok := sourceOf(this)
	if !ok {
		return badHandle("IXAudio2SourceVoice.SetSourceSampleRate")
	}
	return hr(s.src.SetSourceSampleRate(uint32(sampleRate)))
}
