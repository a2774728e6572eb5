package hostapi

import (
	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

// baseKey resolves hkey to a key: either a predefined root or an open handle.
func (s *Surface) baseKey(hkey uint32, call string) *registry.Key {
	if hkey >= uint32(handle.ReservedBase) {
		root := registry.Root(hkey)
		if !root.Supported() {
			errors.Abort(errors.New(errors.PhaseRegistry, errors.KindUnimplemented).
				Call(call).
				Value(hkey).
				Detail("root %s is not emulated", root).
				Build())
		}
		return s.registry.Open(root, "")
	}
	return handle.MustLookup[*registry.Key](s.handles, handle.Handle(hkey), call)
}

// RegOpenKeyEx opens a subkey and writes its handle to resultPtr.
func (s *Surface) RegOpenKeyEx(mem shim.Memory, hkey, subKeyPtr, options, sam, resultPtr uint32) uint32 {
	sub := readCString(mem, subKeyPtr)
	s.log.Debug("RegOpenKeyEx",
		zap.Uint32("key", hkey),
		zap.String("subKey", sub),
		zap.Uint32("options", options),
		zap.Uint32("samDesired", sam))

	key := s.baseKey(hkey, "RegOpenKeyEx").Open(sub)
	writeU32(mem, resultPtr, uint32(s.handles.Open(key)))
	return ErrorSuccess
}

// RegCreateKeyEx opens or creates a subkey and writes its handle to resultPtr.
// dispositionPtr, when set, receives whether the key was created.
func (s *Surface) RegCreateKeyEx(mem shim.Memory, hkey, subKeyPtr, reserved, classPtr, options, sam, securityPtr, resultPtr, dispositionPtr uint32) uint32 {
	sub := readCString(mem, subKeyPtr)
	s.log.Debug("RegCreateKeyEx",
		zap.Uint32("key", hkey),
		zap.String("subKey", sub),
		zap.Uint32("options", options),
		zap.Uint32("samDesired", sam))

	base := s.baseKey(hkey, "RegCreateKeyEx")
	disposition := uint32(RegOpenedExistingKey)
	if !base.Open(sub).Exists() {
		disposition = RegCreatedNewKey
	}
	key := base.Create(sub)

	writeU32(mem, resultPtr, uint32(s.handles.Open(key)))
	if dispositionPtr != 0 {
		writeU32(mem, dispositionPtr, disposition)
	}
	return ErrorSuccess
}

// RegQueryValueEx reads a value.
//
// With a NULL data pointer only the required size is reported through
// sizePtr. String data is truncated to the capacity in sizePtr and always
// terminated; sizePtr then receives the length written excluding the
// terminator. An unset value reports ERROR_FILE_NOT_FOUND.
func (s *Surface) RegQueryValueEx(mem shim.Memory, hkey, namePtr, reserved, typePtr, dataPtr, sizePtr uint32) uint32 {
	name := readCString(mem, namePtr)
	s.log.Debug("RegQueryValueEx",
		zap.Uint32("key", hkey),
		zap.String("name", name),
		zap.Uint32("data", dataPtr))

	key := s.baseKey(hkey, "RegQueryValueEx")
	v, err := key.Query(name)
	if err != nil {
		return ErrorFileNotFound
	}

	if typePtr != 0 {
		writeU32(mem, typePtr, uint32(v.Type))
	}
	if sizePtr == 0 {
		if dataPtr != 0 {
			return ErrorInvalidParameter
		}
		return ErrorSuccess
	}
	if dataPtr == 0 {
		writeU32(mem, sizePtr, v.Size())
		return ErrorSuccess
	}

	capacity := readU32(mem, sizePtr)
	switch v.Type {
	case registry.TypeDWORD:
		if capacity < 4 {
			writeU32(mem, sizePtr, 4)
			return ErrorMoreData
		}
		writeU32(mem, dataPtr, v.DWORD)
		writeU32(mem, sizePtr, 4)
	default:
		n := writeCString(mem, dataPtr, capacity, v.Str)
		writeU32(mem, sizePtr, n)
	}
	return ErrorSuccess
}

// RegSetValueEx stores a REG_SZ or REG_DWORD value. Other types are rejected
// with ERROR_INVALID_PARAMETER.
func (s *Surface) RegSetValueEx(mem shim.Memory, hkey, namePtr, reserved, typ, dataPtr, size uint32) uint32 {
	name := readCString(mem, namePtr)
	s.log.Debug("RegSetValueEx",
		zap.Uint32("key", hkey),
		zap.String("name", name),
		zap.Uint32("type", typ),
		zap.Uint32("size", size))

	key := s.baseKey(hkey, "RegSetValueEx")
	v, err := registry.DecodeValue(registry.ValueType(typ), read(mem, dataPtr, size))
	if err == nil {
		err = key.Set(name, v)
	}
	if err != nil {
		s.log.Warn("RegSetValueEx rejected", zap.String("name", name), zap.Error(err))
		return ErrorInvalidParameter
	}
	return ErrorSuccess
}

// RegCloseKey closes a key handle. Closing a predefined root is a no-op.
func (s *Surface) RegCloseKey(hkey uint32) uint32 {
	s.log.Debug("RegCloseKey", zap.Uint32("key", hkey))
	if hkey >= uint32(handle.ReservedBase) {
		return ErrorSuccess
	}
	if !s.handles.Close(handle.Handle(hkey)) {
		return ErrorInvalidHandle
	}
	return ErrorSuccess
}
