package xaudio2

import (
	"fmt"

	"github.com/pkg/errors"
)

// HRESULT is a COM status code. Failed codes also satisfy error.
type HRESULT uint32

const (
	S_OK                   HRESULT = 0x00000000
	E_NOTIMPL              HRESULT = 0x80004001
	E_NOINTERFACE          HRESULT = 0x80004002
	E_POINTER              HRESULT = 0x80004003
	E_FAIL                 HRESULT = 0x80004005
	E_INVALIDARG           HRESULT = 0x80070057
	XAUDIO2_E_INVALID_CALL HRESULT = 0x88960001
)

func (h HRESULT) Failed() bool { return h&0x80000000 != 0 }

func (h HRESULT) Error() string {
	switch h {
	case E_NOTIMPL:
		return "not implemented"
	case E_NOINTERFACE:
		return "no such interface"
	case E_POINTER:
		return "invalid pointer"
	case E_FAIL:
		return "unspecified failure"
	case E_INVALIDARG:
		return "invalid argument"
	case XAUDIO2_E_INVALID_CALL:
		return "invalid xaudio2 call"
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(h))
}

// Check turns a raw return value into an error.
func Check(r uintptr) error {
	if h := HRESULT(uint32(r)); h.Failed() {
		return h
	}
	return nil
}

// Result maps err back to the code handed to legacy callers.
func Result(err error) HRESULT {
	if err == nil {
		return S_OK
	}
	var h HRESULT
	if errors.As(err, &h) {
		return h
	}
	return E_FAIL
}
