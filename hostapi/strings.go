package hostapi

import (
	"encoding/binary"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode/utf32"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// wideCharSize is sizeof(wchar_t) in the guest.
const wideCharSize = 4

// wideEncoding is the guest's wchar_t encoding.
var wideEncoding encoding.Encoding = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)

func requireUTF8(codePage uint32, call string) {
	if codePage != CPUTF8 {
		errors.Abort(errors.New(errors.PhaseHost, errors.KindUnsupported).
			Call(call).
			Value(codePage).
			Detail("code page %d is not supported", codePage).
			Build())
	}
}

// MultiByteToWideChar converts UTF-8 to guest wide characters.
// A source length of -1 converts through the terminator. A destination
// length of 0 returns the required length in characters. Invalid sequences
// become U+FFFD unless MB_ERR_INVALID_CHARS is set, which fails them with
// ERROR_NO_UNICODE_TRANSLATION.
func (s *Surface) MultiByteToWideChar(mem shim.Memory, codePage, flags, srcPtr uint32, srcLen int32, dstPtr uint32, dstLen int32) int32 {
	requireUTF8(codePage, "MultiByteToWideChar")

	var src []byte
	switch {
	case srcLen == -1:
		src = append([]byte(readCString(mem, srcPtr)), 0)
	case srcLen > 0:
		src = read(mem, srcPtr, uint32(srcLen))
	default:
		s.setLastError(ErrorInvalidParameter)
		return 0
	}

	if flags&MBErrInvalidChars != 0 && !utf8.Valid(src) {
		s.log.Warn("MultiByteToWideChar: invalid UTF-8", zap.Int("bytes", len(src)))
		s.setLastError(ErrorNoUnicodeTranslation)
		return 0
	}
	wide, err := wideEncoding.NewEncoder().Bytes(src)
	if err != nil {
		errors.Abort(errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "MultiByteToWideChar: encoding failed"))
	}
	count := int32(len(wide) / wideCharSize)
	s.log.Debug("MultiByteToWideChar", zap.Int("bytes", len(src)), zap.Int32("chars", count), zap.Int32("capacity", dstLen))

	if dstLen == 0 {
		return count
	}
	if dstLen < count {
		s.setLastError(ErrorInsufficientBuffer)
		return 0
	}
	write(mem, dstPtr, wide)
	return count
}

// WideCharToMultiByte converts guest wide characters to UTF-8.
// A source length of -1 converts through the terminator. A destination
// length of 0 returns the required length in bytes. Surrogates and values
// beyond U+10FFFF become U+FFFD unless WC_ERR_INVALID_CHARS is set, which
// fails them with ERROR_NO_UNICODE_TRANSLATION.
func (s *Surface) WideCharToMultiByte(mem shim.Memory, codePage, flags, srcPtr uint32, srcLen int32, dstPtr uint32, dstLen int32, defaultCharPtr, usedDefaultPtr uint32) int32 {
	requireUTF8(codePage, "WideCharToMultiByte")
	if defaultCharPtr != 0 || usedDefaultPtr != 0 {
		s.setLastError(ErrorInvalidParameter)
		return 0
	}

	var src []byte
	switch {
	case srcLen == -1:
		src = readWideString(mem, srcPtr)
	case srcLen > 0:
		src = read(mem, srcPtr, uint32(srcLen)*wideCharSize)
	default:
		s.setLastError(ErrorInvalidParameter)
		return 0
	}

	if flags&WCErrInvalidChars != 0 && !validWide(src) {
		s.log.Warn("WideCharToMultiByte: invalid code point", zap.Int("chars", len(src)/wideCharSize))
		s.setLastError(ErrorNoUnicodeTranslation)
		return 0
	}
	narrow, err := wideEncoding.NewDecoder().Bytes(src)
	if err != nil {
		errors.Abort(errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "WideCharToMultiByte: decoding failed"))
	}
	count := int32(len(narrow))
	s.log.Debug("WideCharToMultiByte", zap.Int("chars", len(src)/wideCharSize), zap.Int32("bytes", count), zap.Int32("capacity", dstLen))

	if dstLen == 0 {
		return count
	}
	if dstLen < count {
		s.setLastError(ErrorInsufficientBuffer)
		return 0
	}
	write(mem, dstPtr, narrow)
	return count
}

// validWide reports whether every wide character is a Unicode scalar value.
func validWide(src []byte) bool {
	for i := 0; i+wideCharSize <= len(src); i += wideCharSize {
		if !utf8.ValidRune(rune(binary.LittleEndian.Uint32(src[i:]))) {
			return false
		}
	}
	return true
}

// readWideString reads wide characters through the terminator, inclusive.
func readWideString(mem shim.Memory, ptr uint32) []byte {
	for n := uint32(0); n < maxCString; n++ {
		if readU32(mem, ptr+n*wideCharSize) == 0 {
			return read(mem, ptr, (n+1)*wideCharSize)
		}
	}
	errors.Abort(errors.New(errors.PhaseHost, errors.KindInvalidInput).
		Value(ptr).
		Detail("unterminated wide string at 0x%x", ptr).
		Build())
	return nil
}

// Itoa formats value in base into strPtr and returns strPtr. Non-decimal
// bases format the value as unsigned.
func (s *Surface) Itoa(mem shim.Memory, value int32, strPtr uint32, base int32) uint32 {
	if base < 2 || base > 36 {
		errors.Abort(errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Call("itoa").
			Value(base).
			Detail("invalid base %d", base).
			Build())
	}
	var str string
	if base == 10 {
		str = strconv.FormatInt(int64(value), 10)
	} else {
		str = strconv.FormatUint(uint64(uint32(value)), int(base))
	}
	write(mem, strPtr, append([]byte(str), 0))
	s.log.Debug("itoa", zap.Int32("value", value), zap.Int32("base", base), zap.String("result", str))
	return strPtr
}

// Iswascii reports whether c is a 7-bit character.
func (s *Surface) Iswascii(c int32) int32 {
	if c >= 0 && c < 0x80 {
		return 1
	}
	return 0
}
