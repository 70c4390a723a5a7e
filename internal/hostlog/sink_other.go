//go:build !windows

package hostlog

// Log does nothing; there is no host outside windows.
func (s *HostSink) Log(severity Severity, text string) {}

func debugOutput(text string) {}
