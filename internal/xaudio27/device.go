package xaudio27

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"xaudioshim/internal/mem"
	"xaudioshim/internal/xaudio2"
)

const (
	deviceID          = "ABC1234"
	deviceDisplayName = "Virtual Audio Device"

	// GlobalDefaultDevice: default console, multimedia, communications and
	// game device.
	roleGlobalDefault = 0xF

	waveFormatPCM = 1
)

// deviceDetails is the 2.7 XAUDIO2_DEVICE_DETAILS, written packed.
type deviceDetails struct {
	DeviceID     [256]uint16
	DisplayName  [256]uint16
	Role         uint32
	OutputFormat xaudio2.WaveFormatExtensible
}

var deviceDetailsSize = binary.Size(deviceDetails{})

// virtualDevice describes the single device the engine reports.
func virtualDevice() deviceDetails {
	var d deviceDetails
	mem.UTF16(d.DeviceID[:], deviceID)
	mem.UTF16(d.DisplayName[:], deviceDisplayName)
	d.Role = roleGlobalDefault
	d.OutputFormat = xaudio2.WaveFormatExtensible{
		Format: xaudio2.WaveFormatEx{
			FormatTag:      waveFormatPCM,
			Channels:       2,
			SamplesPerSec:  48000,
			AvgBytesPerSec: 48000 * 2,
			BlockAlign:     2 * 2,
			BitsPerSample:  16,
			Size:           22,
		},
		ValidBitsPerSample: 16,
		ChannelMask:        0x3,
	}
	return d
}

func writeDeviceDetails(out unsafe.Pointer, d deviceDetails) error {
	var buf bytes.Buffer
	buf.Grow(deviceDetailsSize)
	if err := binary.Write(&buf, binary.LittleEndian, &d); err != nil {
		return err
	}
	copy(mem.View(out, deviceDetailsSize), buf.Bytes())
	return nil
}
