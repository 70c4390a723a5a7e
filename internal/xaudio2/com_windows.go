//go:build windows

package xaudio2

import (
	"encoding/binary"
	"math"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"xaudioshim/internal/mem"
)

var (
	modxaudio29                      = windows.NewLazySystemDLL("xaudio2_9.dll")
	procXAudio2CreateWithVersionInfo = modxaudio29.NewProc("XAudio2CreateWithVersionInfo")
	procXAudio2Create                = modxaudio29.NewProc("XAudio2Create")
	procCreateFX                     = modxaudio29.NewProc("CreateFX")
)

// System is the Backend exported by xaudio2_9.dll.
type System struct{}

var _ Backend = System{}

func (System) Create(flags, processor uint32) (Engine, error) {
	if err := modxaudio29.Load(); err != nil {
		return nil, errors.Wrap(err, "load xaudio2_9.dll")
	}

	var this uintptr
	var r uintptr
	if procXAudio2CreateWithVersionInfo.Find() == nil {
		r, _, _ = syscall.SyscallN(procXAudio2CreateWithVersionInfo.Addr(),
			uintptr(unsafe.Pointer(&this)), uintptr(flags), uintptr(processor), NTDDI_WIN10)
	} else {
		r, _, _ = syscall.SyscallN(procXAudio2Create.Addr(),
			uintptr(unsafe.Pointer(&this)), uintptr(flags), uintptr(processor))
	}
	if err := Check(r); err != nil {
		return nil, errors.Wrap(err, "XAudio2Create")
	}
	if this == 0 {
		return nil, E_POINTER
	}
	return &comEngine{this: this}, nil
}

func (System) CreateFX(clsid *GUID, initData unsafe.Pointer, initDataSize uint32) (unsafe.Pointer, error) {
	if err := procCreateFX.Find(); err != nil {
		return nil, errors.Wrap(err, "CreateFX")
	}
	var effect uintptr
	r, _, _ := syscall.SyscallN(procCreateFX.Addr(),
		uintptr(unsafe.Pointer(clsid)), uintptr(unsafe.Pointer(&effect)), uintptr(initData), uintptr(initDataSize))
	if err := Check(r); err != nil {
		return nil, err
	}
	return mem.Pointer(effect), nil
}

// vfn returns the address stored in slot of this's dispatch table.
func vfn(this uintptr, slot int) uintptr {
	vtbl := mem.Uintptr(mem.Pointer(this), 0)
	return mem.Uintptr(mem.Pointer(vtbl), uintptr(slot)*mem.PtrSize)
}

func f32(v float32) uintptr { return uintptr(math.Float32bits(v)) }

type comVoicer interface{ raw() uintptr }

func rawVoice(v Voice) (uintptr, error) {
	if v == nil {
		return 0, nil
	}
	c, ok := v.(comVoicer)
	if !ok {
		return 0, E_INVALIDARG
	}
	return c.raw(), nil
}

// marshalSends lays out XAUDIO2_VOICE_SENDS and its descriptors in one packed
// buffer. The header and a descriptor are both {UINT32, pointer}.
func marshalSends(s *VoiceSends) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	rec := 4 + mem.PtrSize
	buf := make([]byte, rec+uintptr(len(s.Sends))*rec)
	binary.LittleEndian.PutUint32(buf, uint32(len(s.Sends)))
	for i, d := range s.Sends {
		off := rec + uintptr(i)*rec
		raw, err := rawVoice(d.OutputVoice)
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(buf[off:], d.Flags)
		mem.PutUintptrBytes(buf[off+4:], raw)
	}
	if len(s.Sends) > 0 {
		mem.PutUintptrBytes(buf[4:], uintptr(unsafe.Pointer(&buf[rec])))
	}
	return buf, nil
}

func bufPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func floatsPtr(s []float32) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(s))
}

// IXAudio2 (2.9) slots.
const (
	engineRelease                = 2
	engineRegisterForCallbacks   = 3
	engineUnregisterForCallbacks = 4
	engineCreateSourceVoice      = 5
	engineCreateSubmixVoice      = 6
	engineCreateMasteringVoice   = 7
	engineStartEngine            = 8
	engineStopEngine             = 9
	engineCommitChanges          = 10
	engineGetPerformanceData     = 11
	engineSetDebugConfiguration  = 12
)

type comEngine struct{ this uintptr }

func (e *comEngine) RegisterForCallbacks(callback unsafe.Pointer) error {
	r, _, _ := syscall.SyscallN(vfn(e.this, engineRegisterForCallbacks), e.this, uintptr(callback))
	return Check(r)
}

func (e *comEngine) UnregisterForCallbacks(callback unsafe.Pointer) {
	syscall.SyscallN(vfn(e.this, engineUnregisterForCallbacks), e.this, uintptr(callback))
}

func (e *comEngine) CreateSourceVoice(format *WaveFormatEx, flags uint32, maxFrequencyRatio float32,
	callback unsafe.Pointer, sends *VoiceSends, chain *EffectChain) (SourceVoice, error) {
	buf, err := marshalSends(sends)
	if err != nil {
		return nil, err
	}
	var voice uintptr
	r, _, _ := syscall.SyscallN(vfn(e.this, engineCreateSourceVoice), e.this,
		uintptr(unsafe.Pointer(&voice)), uintptr(unsafe.Pointer(format)), uintptr(flags), f32(maxFrequencyRatio),
		uintptr(callback), uintptr(bufPtr(buf)), uintptr(unsafe.Pointer(chain)))
	runtime.KeepAlive(buf)
	if err := Check(r); err != nil {
		return nil, err
	}
	return &comSourceVoice{comVoice{voice}}, nil
}

func (e *comEngine) CreateSubmixVoice(channels, sampleRate, flags, stage uint32,
	sends *VoiceSends, chain *EffectChain) (SubmixVoice, error) {
	buf, err := marshalSends(sends)
	if err != nil {
		return nil, err
	}
	var voice uintptr
	r, _, _ := syscall.SyscallN(vfn(e.this, engineCreateSubmixVoice), e.this,
		uintptr(unsafe.Pointer(&voice)), uintptr(channels), uintptr(sampleRate), uintptr(flags), uintptr(stage),
		uintptr(bufPtr(buf)), uintptr(unsafe.Pointer(chain)))
	runtime.KeepAlive(buf)
	if err := Check(r); err != nil {
		return nil, err
	}
	return &comSubmixVoice{comVoice{voice}}, nil
}

func (e *comEngine) CreateMasteringVoice(channels, sampleRate, flags uint32, deviceID *uint16,
	chain *EffectChain, category uint32) (MasteringVoice, error) {
	var voice uintptr
	r, _, _ := syscall.SyscallN(vfn(e.this, engineCreateMasteringVoice), e.this,
		uintptr(unsafe.Pointer(&voice)), uintptr(channels), uintptr(sampleRate), uintptr(flags),
		uintptr(unsafe.Pointer(deviceID)), uintptr(unsafe.Pointer(chain)), uintptr(category))
	if err := Check(r); err != nil {
		return nil, err
	}
	return &comMasteringVoice{comVoice{voice}}, nil
}

func (e *comEngine) StartEngine() error {
	r, _, _ := syscall.SyscallN(vfn(e.this, engineStartEngine), e.this)
	return Check(r)
}

func (e *comEngine) StopEngine() {
	syscall.SyscallN(vfn(e.this, engineStopEngine), e.this)
}

func (e *comEngine) CommitChanges(operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(e.this, engineCommitChanges), e.this, uintptr(operationSet))
	return Check(r)
}

func (e *comEngine) GetPerformanceData(out *PerformanceData) {
	syscall.SyscallN(vfn(e.this, engineGetPerformanceData), e.this, uintptr(unsafe.Pointer(out)))
}

func (e *comEngine) SetDebugConfiguration(cfg *DebugConfiguration) {
	syscall.SyscallN(vfn(e.this, engineSetDebugConfiguration), e.this, uintptr(unsafe.Pointer(cfg)), 0)
}

func (e *comEngine) Release() uint32 {
	r, _, _ := syscall.SyscallN(vfn(e.this, engineRelease), e.this)
	return uint32(r)
}

// IXAudio2Voice (2.9) slots, followed by the source and mastering extras.
const (
	voiceGetVoiceDetails = iota
	voiceSetOutputVoices
	voiceSetEffectChain
	voiceEnableEffect
	voiceDisableEffect
	voiceGetEffectState
	voiceSetEffectParameters
	voiceGetEffectParameters
	voiceSetFilterParameters
	voiceGetFilterParameters
	voiceSetOutputFilterParameters
	voiceGetOutputFilterParameters
	voiceSetVolume
	voiceGetVolume
	voiceSetChannelVolumes
	voiceGetChannelVolumes
	voiceSetOutputMatrix
	voiceGetOutputMatrix
	voiceDestroyVoice

	sourceStart = iota
	sourceStop
	sourceSubmitSourceBuffer
	sourceFlushSourceBuffers
	sourceDiscontinuity
	sourceExitLoop
	sourceGetState
	sourceSetFrequencyRatio
	sourceGetFrequencyRatio
	sourceSetSourceSampleRate

	masteringGetChannelMask = voiceDestroyVoice + 1
)

type comVoice struct{ this uintptr }

func (v *comVoice) raw() uintptr { return v.this }

func (v *comVoice) GetVoiceDetails(out *VoiceDetails) {
	syscall.SyscallN(vfn(v.this, voiceGetVoiceDetails), v.this, uintptr(unsafe.Pointer(out)))
}

func (v *comVoice) SetOutputVoices(sends *VoiceSends) error {
	buf, err := marshalSends(sends)
	if err != nil {
		return err
	}
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetOutputVoices), v.this, uintptr(bufPtr(buf)))
	runtime.KeepAlive(buf)
	return Check(r)
}

func (v *comVoice) SetEffectChain(chain *EffectChain) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetEffectChain), v.this, uintptr(unsafe.Pointer(chain)))
	return Check(r)
}

func (v *comVoice) EnableEffect(index, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceEnableEffect), v.this, uintptr(index), uintptr(operationSet))
	return Check(r)
}

func (v *comVoice) DisableEffect(index, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceDisableEffect), v.this, uintptr(index), uintptr(operationSet))
	return Check(r)
}

func (v *comVoice) GetEffectState(index uint32) bool {
	var enabled BOOL
	syscall.SyscallN(vfn(v.this, voiceGetEffectState), v.this, uintptr(index), uintptr(unsafe.Pointer(&enabled)))
	return enabled != 0
}

func (v *comVoice) SetEffectParameters(index uint32, params unsafe.Pointer, size, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetEffectParameters), v.this,
		uintptr(index), uintptr(params), uintptr(size), uintptr(operationSet))
	return Check(r)
}

func (v *comVoice) GetEffectParameters(index uint32, params unsafe.Pointer, size uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceGetEffectParameters), v.this,
		uintptr(index), uintptr(params), uintptr(size))
	return Check(r)
}

func (v *comVoice) SetFilterParameters(params *FilterParameters, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetFilterParameters), v.this,
		uintptr(unsafe.Pointer(params)), uintptr(operationSet))
	return Check(r)
}

func (v *comVoice) GetFilterParameters(out *FilterParameters) {
	syscall.SyscallN(vfn(v.this, voiceGetFilterParameters), v.this, uintptr(unsafe.Pointer(out)))
}

func (v *comVoice) SetOutputFilterParameters(dest Voice, params *FilterParameters, operationSet uint32) error {
	d, err := rawVoice(dest)
	if err != nil {
		return err
	}
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetOutputFilterParameters), v.this,
		d, uintptr(unsafe.Pointer(params)), uintptr(operationSet))
	return Check(r)
}

func (v *comVoice) GetOutputFilterParameters(dest Voice, out *FilterParameters) {
	d, err := rawVoice(dest)
	if err != nil {
		return
	}
	syscall.SyscallN(vfn(v.this, voiceGetOutputFilterParameters), v.this, d, uintptr(unsafe.Pointer(out)))
}

func (v *comVoice) SetVolume(volume float32, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetVolume), v.this, f32(volume), uintptr(operationSet))
	return Check(r)
}

func (v *comVoice) GetVolume() float32 {
	var volume float32
	syscall.SyscallN(vfn(v.this, voiceGetVolume), v.this, uintptr(unsafe.Pointer(&volume)))
	return volume
}

func (v *comVoice) SetChannelVolumes(volumes []float32, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetChannelVolumes), v.this,
		uintptr(len(volumes)), uintptr(floatsPtr(volumes)), uintptr(operationSet))
	runtime.KeepAlive(volumes)
	return Check(r)
}

func (v *comVoice) GetChannelVolumes(volumes []float32) {
	syscall.SyscallN(vfn(v.this, voiceGetChannelVolumes), v.this,
		uintptr(len(volumes)), uintptr(floatsPtr(volumes)))
	runtime.KeepAlive(volumes)
}

func (v *comVoice) SetOutputMatrix(dest Voice, sourceChannels, destChannels uint32, matrix []float32, operationSet uint32) error {
	d, err := rawVoice(dest)
	if err != nil {
		return err
	}
	r, _, _ := syscall.SyscallN(vfn(v.this, voiceSetOutputMatrix), v.this,
		d, uintptr(sourceChannels), uintptr(destChannels), uintptr(floatsPtr(matrix)), uintptr(operationSet))
	runtime.KeepAlive(matrix)
	return Check(r)
}

func (v *comVoice) GetOutputMatrix(dest Voice, sourceChannels, destChannels uint32, matrix []float32) {
	d, err := rawVoice(dest)
	if err != nil {
		return
	}
	syscall.SyscallN(vfn(v.this, voiceGetOutputMatrix), v.this,
		d, uintptr(sourceChannels), uintptr(destChannels), uintptr(floatsPtr(matrix)))
	runtime.KeepAlive(matrix)
}

func (v *comVoice) DestroyVoice() {
	syscall.SyscallN(vfn(v.this, voiceDestroyVoice), v.this)
}

type comSubmixVoice struct{ comVoice }

type comMasteringVoice struct{ comVoice }

func (v *comMasteringVoice) GetChannelMask() (uint32, error) {
	var mask uint32
	r, _, _ := syscall.SyscallN(vfn(v.this, masteringGetChannelMask), v.this, uintptr(unsafe.Pointer(&mask)))
	return mask, Check(r)
}

type comSourceVoice struct{ comVoice }

func (v *comSourceVoice) Start(flags, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceStart), v.this, uintptr(flags), uintptr(operationSet))
	return Check(r)
}

func (v *comSourceVoice) Stop(flags, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceStop), v.this, uintptr(flags), uintptr(operationSet))
	return Check(r)
}

func (v *comSourceVoice) SubmitSourceBuffer(buffer *Buffer, wma *BufferWMA) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceSubmitSourceBuffer), v.this,
		uintptr(unsafe.Pointer(buffer)), uintptr(unsafe.Pointer(wma)))
	return Check(r)
}

func (v *comSourceVoice) FlushSourceBuffers() error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceFlushSourceBuffers), v.this)
	return Check(r)
}

func (v *comSourceVoice) Discontinuity() error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceDiscontinuity), v.this)
	return Check(r)
}

func (v *comSourceVoice) ExitLoop(operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceExitLoop), v.this, uintptr(operationSet))
	return Check(r)
}

func (v *comSourceVoice) GetState(out *VoiceState, flags uint32) {
	syscall.SyscallN(vfn(v.this, sourceGetState), v.this, uintptr(unsafe.Pointer(out)), uintptr(flags))
}

func (v *comSourceVoice) SetFrequencyRatio(ratio float32, operationSet uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceSetFrequencyRatio), v.this, f32(ratio), uintptr(operationSet))
	return Check(r)
}

func (v *comSourceVoice) GetFrequencyRatio() float32 {
	var ratio float32
	syscall.SyscallN(vfn(v.this, sourceGetFrequencyRatio), v.this, uintptr(unsafe.Pointer(&ratio)))
	return ratio
}

func (v *comSourceVoice) SetSourceSampleRate(sampleRate uint32) error {
	r, _, _ := syscall.SyscallN(vfn(v.this, sourceSetSourceSampleRate), v.this, uintptr(sampleRate))
	return Check(r)
}
