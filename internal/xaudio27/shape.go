package xaudio27

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Shape names one legacy interface layout.
type Shape int

const (
	ShapeEngine Shape = iota
	ShapeSourceVoice
	ShapeSubmixVoice
	ShapeMasteringVoice
	ShapeEngineCallback
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeEngine:
		return "IXAudio2"
	case ShapeSourceVoice:
		return "IXAudio2SourceVoice"
	case ShapeSubmixVoice:
		return "IXAudio2SubmixVoice"
	case ShapeMasteringVoice:
		return "IXAudio2MasteringVoice"
	case ShapeEngineCallback:
		return "IXAudio2EngineCallback"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// slot is one dispatch table entry. float marks slots whose second argument
// is a float; on amd64 it arrives in XMM1 and needs a thunk.
type slot struct {
	name  string
	fn    any
	float bool
}

// Table is a built dispatch table: one code address per slot.
type Table []uintptr

type tableSet struct {
	once   sync.Once
	tables [shapeCount]Table
	err    error
}

var dispatch tableSet

// buildTables builds every dispatch table once. A failure is permanent and
// leaves no table behind.
func buildTables() error {
	dispatch.once.Do(func() {
		dispatch.tables, dispatch.err = buildAll(callback)
	})
	return dispatch.err
}

func buildAll(cb func(slot) (uintptr, error)) ([shapeCount]Table, error) {
	var built [shapeCount]Table
	for s := Shape(0); s < shapeCount; s++ {
		ss := slots(s)
		t := make(Table, len(ss))
		for i := range ss {
			addr, err := cb(ss[i])
			if err != nil {
				return [shapeCount]Table{}, errors.WithMessagef(err, "%s.%s", s, ss[i].name)
			}
			t[i] = addr
		}
		built[s] = t
	}
	return built, nil
}

// TableFor returns the dispatch table built for shape.
func TableFor(shape Shape) (Table, error) {
	if err := buildTables(); err != nil {
		return nil, err
	}
	return dispatch.tables[shape], nil
}

// SlotNames lists the method names of shape in table order.
func SlotNames(shape Shape) []string {
	ss := slots(shape)
	names := make([]string, len(ss))
	for i := range ss {
		names[i] = ss[i].name
	}
	return names
}

func slots(shape Shape) []slot {
	switch shape {
	case ShapeEngine:
		return engineSlots()
	case ShapeSourceVoice:
		return append(voiceSlots(), sourceVoiceSlots()...)
	case ShapeSubmixVoice, ShapeMasteringVoice:
		return voiceSlots()
	case ShapeEngineCallback:
		return callbackSlots()
	}
	return nil
}

func engineSlots() []slot {
	return []slot{
		{name: "QueryInterface", fn: engineQueryInterface},
		{name: "AddRef", fn: engineAddRef},
		{name: "Release", fn: engineRelease},
		{name: "GetDeviceCount", fn: engineGetDeviceCount},
		{name: "GetDeviceDetails", fn: engineGetDeviceDetails},
		{name: "Initialize", fn: engineInitialize},
		{name: "RegisterForCallbacks", fn: engineRegisterForCallbacks},
		{name: "UnregisterForCallbacks", fn: engineUnregisterForCallbacks},
		{name: "CreateSourceVoice", fn: engineCreateSourceVoice},
		{name: "CreateSubmixVoice", fn: engineCreateSubmixVoice},
		{name: "CreateMasteringVoice", fn: engineCreateMasteringVoice},
		{name: "StartEngine", fn: engineStartEngine},
		{name: "StopEngine", fn: engineStopEngine},
		{name: "CommitChanges", fn: engineCommitChanges},
		{name: "GetPerformanceData", fn: engineGetPerformanceData},
		{name: "SetDebugConfiguration", fn: engineSetDebugConfiguration},
	}
}

func voiceSlots() []slot {
	return []slot{
		{name: "GetVoiceDetails", fn: voiceGetVoiceDetails},
		{name: "SetOutputVoices", fn: voiceSetOutputVoices},
		{name: "SetEffectChain", fn: voiceSetEffectChain},
		{name: "EnableEffect", fn: voiceEnableEffect},
		{name: "DisableEffect", fn: voiceDisableEffect},
		{name: "GetEffectState", fn: voiceGetEffectState},
		{name: "SetEffectParameters", fn: voiceSetEffectParameters},
		{name: "GetEffectParameters", fn: voiceGetEffectParameters},
		{name: "SetFilterParameters", fn: voiceSetFilterParameters},
		{name: "GetFilterParameters", fn: voiceGetFilterParameters},
		{name: "SetOutputFilterParameters", fn: voiceSetOutputFilterParameters},
		{name: "GetOutputFilterParameters", fn: voiceGetOutputFilterParameters},
		{name: "SetVolume", fn: voiceSetVolume, float: true},
		{name: "GetVolume", fn: voiceGetVolume},
		{name: "SetChannelVolumes", fn: voiceSetChannelVolumes},
		{name: "GetChannelVolumes", fn: voiceGetChannelVolumes},
		{name: "SetOutputMatrix", fn: voiceSetOutputMatrix},
		{name: "GetOutputMatrix", fn: voiceGetOutputMatrix},
		{name: "DestroyVoice", fn: voiceDestroyVoice},
	}
}

func sourceVoiceSlots() []slot {
	return []slot{
		{name: "Start", fn: sourceStart},
		{name: "Stop", fn: sourceStop},
		{name: "SubmitSourceBuffer", fn: sourceSubmitSourceBuffer},
		{name: "FlushSourceBuffers", fn: sourceFlushSourceBuffers},
		{name: "Discontinuity", fn: sourceDiscontinuity},
		{name: "ExitLoop", fn: sourceExitLoop},
		{name: "GetState", fn: sourceGetState},
		{name: "SetFrequencyRatio", fn: sourceSetFrequencyRatio, float: true},
		{name: "GetFrequencyRatio", fn: sourceGetFrequencyRatio},
		{name: "SetSourceSampleRate", fn: sourceSetSourceSampleRate},
	}
}

func callbackSlots() []slot {
	return []slot{
		{name: "OnProcessingPassStart", fn: sinkOnProcessingPassStart},
		{name: "OnProcessingPassEnd", fn: sinkOnProcessingPassEnd},
		{name: "OnCriticalError", fn: sinkOnCriticalError},
	}
}
