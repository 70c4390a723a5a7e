package offsets

// UDK64.exe
var current = Table{
	XAudio2Create: 0x0170F4D0,
	CreateFXSlot:  0x024BE8B0,
	LogObject:     0x03551720,
	LogFunction:   0x00246A20,
}
