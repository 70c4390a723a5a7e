package hostlog

import (
	"github.com/pkg/errors"

	"xaudioshim/internal/hostimage"
	"xaudioshim/internal/offsets"
)

// HostSink writes to the host's log device through its log function.
type HostSink struct {
	Object   uintptr
	Function uintptr
}

// NewHostSink resolves the log object and function in img.
func NewHostSink(img hostimage.Image, table offsets.Table) (*HostSink, error) {
	var addrs [2]uintptr
	for i, name := range []offsets.Name{offsets.LogObject, offsets.LogFunction} {
		off, err := table.Lookup(name)
		if err != nil {
			return nil, err
		}
		if addrs[i], err = img.Addr(off); err != nil {
			return nil, errors.WithMessagef(err, "%s", name)
		}
	}
	return &HostSink{Object: addrs[0], Function: addrs[1]}, nil
}
