// Package offsets lists the image-relative addresses the shim touches in the
// one host build it supports.
package offsets

import (
	"github.com/pkg/errors"
)

// Name is a logical entry in a Table.
type Name string

const (
	// XAudio2Create is the host's statically linked XAudio2Create.
	XAudio2Create Name = "XAudio2Create"
	// CreateFXSlot holds the pointer the host calls as XAPOFX CreateFX.
	CreateFXSlot Name = "CreateFXSlot"
	// LogObject is the host's global log device.
	LogObject Name = "LogObject"
	// LogFunction is the host's log routine.
	LogFunction Name = "LogFunction"
)

var ErrNoEntry = errors.New("no offset for this build")

// Table maps names to offsets from the image base.
type Table map[Name]uintptr

// Lookup returns the offset recorded for name.
func (t Table) Lookup(name Name) (uintptr, error) {
	off, ok := t[name]
	if !ok {
		return 0, errors.WithMessagef(ErrNoEntry, "%s", name)
	}
	return off, nil
}

// Current returns a copy of the table compiled in for this architecture.
func Current() Table {
	t := make(Table, len(current))
	for k, v := range current {
		t[k] = v
	}
	return t
}

// Hooks lists the functions the shim detours, in install order.
func Hooks() []Name {
	return []Name{XAudio2Create}
}

// Slots lists the function pointer slots the shim overwrites.
func Slots() []Name {
	return []Name{CreateFXSlot}
}
