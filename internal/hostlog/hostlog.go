// Package hostlog routes apex/log entries into the host's own log.
package hostlog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/apex/log"
)

// Severity is the message type the host log function takes.
type Severity uint32

const (
	Log      Severity = 0x2f8
	Critical Severity = 0x2f9
	Init     Severity = 0x2fa
	Warning  Severity = 0x2ff
	Error    Severity = 0x315
	Debug    Severity = 0x36c
)

// Sink receives formatted lines.
type Sink interface {
	Log(severity Severity, text string)
}

// Levels maps apex levels to host severities.
var Levels = [...]Severity{
	log.DebugLevel: Init,
	log.InfoLevel:  Init,
	log.WarnLevel:  Warning,
	log.ErrorLevel: Error,
	log.FatalLevel: Critical,
}

// Handler implements log.Handler.
type Handler struct {
	mu sync.Mutex

	Sink   Sink
	Prefix string
	// DebugOutput mirrors every line to the debugger.
	DebugOutput bool
}

func New(sink Sink, prefix string, debugOutput bool) *Handler {
	return &Handler{Sink: sink, Prefix: prefix, DebugOutput: debugOutput}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	text := Format(h.Prefix, e)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Sink != nil {
		h.Sink.Log(severity(e.Level), text)
	}
	if h.DebugOutput {
		debugOutput(text)
	}
	return nil
}

func severity(l log.Level) Severity {
	if l < 0 || int(l) >= len(Levels) {
		return Log
	}
	return Levels[l]
}

// Format renders an entry as "<prefix>: <message> key=value ...".
func Format(prefix string, e *log.Entry) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	return b.String()
}
