package offsets

// UDK.exe. Only the log entries are known for the 32 bit build, so nothing
// is hooked or patched there.
var current = Table{
	LogObject:   0x029A31A8,
	LogFunction: 0x0021C500,
}
