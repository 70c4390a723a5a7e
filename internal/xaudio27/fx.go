package xaudio27

import (
	"unsafe"

	"github.com/apex/log"

	"xaudioshim/internal/mem"
	"xaudioshim/internal/xaudio2"
)

// XAPOFX 1.5 class ids.
var (
	CLSID_FXEQ_27               = xaudio2.MustParseGUID("a90bc001-e897-e897-7439-435500000000")
	CLSID_FXMasteringLimiter_27 = xaudio2.MustParseGUID("a90bc001-e897-e897-7439-435500000001")
	CLSID_FXReverb_27           = xaudio2.MustParseGUID("a90bc001-e897-e897-7439-435500000002")
	CLSID_FXEcho_27             = xaudio2.MustParseGUID("a90bc001-e897-e897-7439-435500000003")
)

// XAudio 2.9 class ids.
var (
	CLSID_FXEQ               = xaudio2.MustParseGUID("F5E01117-D6C4-485A-A3F5-695196F3DBFA")
	CLSID_FXMasteringLimiter = xaudio2.MustParseGUID("C4137916-2BE1-46FD-8599-441536F49856")
	CLSID_FXReverb           = xaudio2.MustParseGUID("7D9ACA56-CB68-4807-B632-B137352E8596")
	CLSID_FXEcho             = xaudio2.MustParseGUID("5039D740-F736-449A-84D3-A56202557B87")
)

// IdentifierTranslationTable maps each legacy effect class id to the 2.9 id
// of the same effect.
var IdentifierTranslationTable = map[xaudio2.GUID]xaudio2.GUID{
	CLSID_FXEQ_27:               CLSID_FXEQ,
	CLSID_FXMasteringLimiter_27: CLSID_FXMasteringLimiter,
	CLSID_FXReverb_27:           CLSID_FXReverb,
	CLSID_FXEcho_27:             CLSID_FXEcho,
}

// TranslateClassID returns the 2.9 class id for a legacy one.
func TranslateClassID(legacy xaudio2.GUID) (xaudio2.GUID, bool) {
	id, ok := IdentifierTranslationTable[legacy]
	return id, ok
}

// CreateFX replaces the host's XAPOFX CreateFX. The effect object is created
// by 2.9 and handed to the host unchanged: IXAPO did not change between
// versions.
func CreateFX(clsid, effect, initData unsafe.Pointer, initDataSize uintptr) (ret uintptr) {
	defer guard("CreateFX", &ret)
	if clsid == nil || effect == nil {
		return ePointer
	}
	var legacy xaudio2.GUID
	mem.Copy(unsafe.Pointer(&legacy), clsid, int(unsafe.Sizeof(legacy)))

	id, ok := TranslateClassID(legacy)
	if !ok {
		log.WithField("clsid", legacy.String()).Warn("CreateFX: unknown effect class")
		mem.PutUintptr(effect, 0, 0)
		return uintptr(xaudio2.E_NOINTERFACE)
	}
	r, err := current()
	if err != nil {
		return hr(err)
	}
	p, err := r.Backend.CreateFX(&id, initData, uint32(initDataSize))
	if err != nil {
		log.WithError(err).WithField("clsid", id.String()).Warn("CreateFX")
		return hr(err)
	}
	mem.PutUintptr(effect, 0, uintptr(p))
	return sOK
}
