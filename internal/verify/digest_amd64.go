package verify

// UDK64.exe
var udk64 = [32]byte{
	0xF0, 0x2F, 0x13, 0x1E, 0xF2, 0x0E, 0xA3, 0xCE, 0xD1, 0xCE, 0x93, 0x14, 0x53, 0xDE, 0x37, 0xB9,
	0x51, 0x1B, 0x92, 0xD0, 0xBA, 0x7C, 0x07, 0x27, 0x5B, 0xA0, 0xAE, 0xFB, 0x7D, 0xFB, 0xE3, 0xE3,
}

func Known() [][32]byte {
	return [][32]byte{udk64}
}
