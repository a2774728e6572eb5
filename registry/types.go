package registry

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// Root is a predefined registry key as the guest passes it (HKEY_*).
//
// The values are those of the engine's platform layer, which numbers
// HKEY_LOCAL_MACHINE and HKEY_CURRENT_USER from 0x80000000. It defines no
// other roots; ClassesRoot and Users follow them so .reg text naming them can
// be recognized and skipped.
type Root uint32

const (
	LocalMachine Root = 0x80000000
	CurrentUser  Root = 0x80000001
	ClassesRoot  Root = 0x80000002
	Users        Root = 0x80000003
)

func (r Root) String() string {
	switch r {
	case ClassesRoot:
		return "HKEY_CLASSES_ROOT"
	case CurrentUser:
		return "HKEY_CURRENT_USER"
	case LocalMachine:
		return "HKEY_LOCAL_MACHINE"
	case Users:
		return "HKEY_USERS"
	default:
		return fmt.Sprintf("HKEY(0x%x)", uint32(r))
	}
}

// Supported reports whether keys under r can be opened.
// Only machine and user scope are emulated.
func (r Root) Supported() bool {
	return r == CurrentUser || r == LocalMachine
}

var rootNames = map[string]Root{
	"HKEY_CLASSES_ROOT":  ClassesRoot,
	"HKCR":               ClassesRoot,
	"HKEY_CURRENT_USER":  CurrentUser,
	"HKCU":               CurrentUser,
	"HKEY_LOCAL_MACHINE": LocalMachine,
	"HKLM":               LocalMachine,
	"HKEY_USERS":         Users,
	"HKU":                Users,
}

// ParseRoot resolves a root key name or its short alias, case-insensitively.
func ParseRoot(name string) (Root, bool) {
	r, ok := rootNames[strings.ToUpper(name)]
	return r, ok
}

// ValueType is the Win32 REG_* tag of a value.
type ValueType uint32

const (
	TypeString ValueType = 1 // REG_SZ
	TypeDWORD  ValueType = 4 // REG_DWORD
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "REG_SZ"
	case TypeDWORD:
		return "REG_DWORD"
	default:
		return fmt.Sprintf("REG_TYPE(%d)", uint32(t))
	}
}

// Value is a registry value: either a string or a 32-bit integer.
type Value struct {
	Str   string
	DWORD uint32
	Type  ValueType
}

// StringValue returns a REG_SZ value.
func StringValue(s string) Value {
	return Value{Type: TypeString, Str: s}
}

// DWORDValue returns a REG_DWORD value.
func DWORDValue(v uint32) Value {
	return Value{Type: TypeDWORD, DWORD: v}
}

// Size returns the number of bytes the value occupies in a guest buffer.
// Strings include their terminator.
func (v Value) Size() uint32 {
	if v.Type == TypeDWORD {
		return 4
	}
	return uint32(len(v.Str)) + 1
}

// Bytes returns the guest encoding of v.
func (v Value) Bytes() []byte {
	if v.Type == TypeDWORD {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, v.DWORD)
		return buf
	}
	buf := make([]byte, len(v.Str)+1)
	copy(buf, v.Str)
	return buf
}

func (v Value) String() string {
	if v.Type == TypeDWORD {
		return fmt.Sprintf("dword:%08x", v.DWORD)
	}
	return fmt.Sprintf("%q", v.Str)
}

// DecodeValue builds a Value from a guest buffer of the given type.
// String data stops at the first NUL.
func DecodeValue(typ ValueType, data []byte) (Value, error) {
	switch typ {
	case TypeString:
		if i := strings.IndexByte(string(data), 0); i >= 0 {
			data = data[:i]
		}
		return StringValue(string(data)), nil
	case TypeDWORD:
		if len(data) < 4 {
			return Value{}, errors.InvalidInput(errors.PhaseRegistry,
				fmt.Sprintf("REG_DWORD needs 4 bytes, got %d", len(data)))
		}
		return DWORDValue(binary.LittleEndian.Uint32(data)), nil
	default:
		return Value{}, unsupportedType(typ)
	}
}

func unsupportedType(typ ValueType) *errors.Error {
	return errors.New(errors.PhaseRegistry, errors.KindUnsupported).
		Value(uint32(typ)).
		Detail("unsupported value type %d", uint32(typ)).
		Build()
}
