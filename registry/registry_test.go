package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/unicode"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

func TestCopyCString(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     string
		wantN    int
	}{
		{"fits with terminator", 8, "english\x00", 7},
		{"truncated", 4, "eng\x00", 3},
		{"capacity one", 1, "\x00", 0},
		{"larger than needed", 10, "english\x00\xff\xff", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.capacity)
			for i := range dst {
				dst[i] = 0xff
			}
			n := CopyCString(dst, "english")
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, []byte(tt.want), dst)
		})
	}

	t.Run("zero capacity", func(t *testing.T) {
		assert.Equal(t, 0, CopyCString(nil, "english"))
		assert.Equal(t, 0, CopyCString([]byte{}, "english"))
	})
}

func TestLanguageRecognizedOnAnyKey(t *testing.T) {
	s := NewStore()

	for _, path := range []string{"", `SOFTWARE\Electronic Arts\EA Games\Generals`, "a/b/c"} {
		k := s.Open(LocalMachine, path)
		v, err := k.Query("Language")
		require.NoError(t, err, path)
		assert.Equal(t, TypeString, v.Type)

		buf := make([]byte, 8)
		n := CopyCString(buf, v.Str)
		assert.Equal(t, 7, n)
		assert.Equal(t, []byte("english\x00"), buf)

		buf = make([]byte, 4)
		n = CopyCString(buf, v.Str)
		assert.Equal(t, 3, n)
		assert.Equal(t, []byte("eng\x00"), buf)
	}
}

func TestQueryStoredWinsOverRecognized(t *testing.T) {
	s := NewStore()
	k := s.Create(CurrentUser, `Software\Generals`)
	require.NoError(t, k.Set("Language", StringValue("german")))

	v, err := s.Open(CurrentUser, "software/generals").Query("LANGUAGE")
	require.NoError(t, err)
	assert.Equal(t, "german", v.Str)

	v, err = s.Open(LocalMachine, `Software\Generals`).Query("Language")
	require.NoError(t, err)
	assert.Equal(t, "english", v.Str, "other roots are independent")
}

func TestQueryUnsetValue(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	k := NewStore().Open(LocalMachine, `SOFTWARE\Electronic Arts`)
	_, err := k.Query("InstallPath")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindNotFound})
	assert.Equal(t, 1, logs.FilterMessage("registry value not set").Len())
}

func TestSetUnsupportedType(t *testing.T) {
	k := NewStore().Open(CurrentUser, "x")
	err := k.Set("Blob", Value{Type: 3})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindUnsupported})
	assert.Contains(t, err.Error(), "unsupported value type 3")
}

func TestDecodeValue(t *testing.T) {
	v, err := DecodeValue(TypeString, []byte("abc\x00junk"))
	require.NoError(t, err)
	assert.Equal(t, "abc", v.Str)

	v, err = DecodeValue(TypeDWORD, []byte{0x01, 0x02, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0201), v.DWORD)

	_, err = DecodeValue(TypeDWORD, []byte{1})
	assert.Error(t, err)

	_, err = DecodeValue(7, nil)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindUnsupported})
}

func TestValueBytes(t *testing.T) {
	assert.Equal(t, []byte("hi\x00"), StringValue("hi").Bytes())
	assert.Equal(t, uint32(3), StringValue("hi").Size())
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, DWORDValue(0x12345678).Bytes())
	assert.Equal(t, uint32(4), DWORDValue(1).Size())
}

func TestUnsupportedRootAborts(t *testing.T) {
	for _, root := range []Root{ClassesRoot, Users, Root(0x80000005)} {
		t.Run(root.String(), func(t *testing.T) {
			defer func() {
				e, ok := errors.FromPanic(recover())
				require.True(t, ok, "expected abort")
				assert.Equal(t, errors.KindUnimplemented, e.Kind)
			}()
			NewStore().Open(root, "Software")
		})
	}
}

func TestKeyIsHandleObject(t *testing.T) {
	table := handle.NewTable()
	h := table.Open(NewStore().Open(LocalMachine, "Software"))

	k, err := handle.Lookup[*Key](table, h)
	require.NoError(t, err)
	assert.Equal(t, "Software", k.Path())
	assert.True(t, table.Close(h))
}

func TestSubkeysAndValueNames(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Create(LocalMachine, `SOFTWARE\EA\Generals`).Set("Version", DWORDValue(65540)))
	require.NoError(t, s.Create(LocalMachine, `SOFTWARE\EA\Generals`).Set("InstallPath", StringValue(`C:\Games`)))
	s.Create(LocalMachine, `SOFTWARE\EA\ZeroHour`)

	assert.Equal(t, []string{"Generals", "ZeroHour"}, s.Open(LocalMachine, `software\ea`).Subkeys())
	assert.Equal(t, []string{"InstallPath", "Version"}, s.Open(LocalMachine, `SOFTWARE/EA/Generals`).ValueNames())
	assert.Nil(t, s.Open(LocalMachine, "missing").Subkeys())
}

func TestParseRoot(t *testing.T) {
	r, ok := ParseRoot("hklm")
	assert.True(t, ok)
	assert.Equal(t, LocalMachine, r)

	r, ok = ParseRoot("HKEY_CURRENT_USER")
	assert.True(t, ok)
	assert.Equal(t, CurrentUser, r)

	_, ok = ParseRoot("HKEY_CURRENT_CONFIG")
	assert.False(t, ok)
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitPath(`\a//b\c\`))
	assert.Empty(t, SplitPath(""))
}

func TestLoad(t *testing.T) {
	input := "Windows Registry Editor Version 5.00\r\n" +
		"\r\n" +
		"; seeded by tests\r\n" +
		"[HKEY_LOCAL_MACHINE\\SOFTWARE\\Electronic Arts\\EA Games\\Generals]\r\n" +
		"\"InstallPath\"=\"C:\\\\Games\\\\Generals\\\\\"\r\n" +
		"\"Version\"=dword:00010004\r\n" +
		"\"Proxy\"=hex:01,02\r\n" +
		"@=\"default\"\r\n" +
		"\r\n" +
		"[HKCU\\Software\\Generals]\r\n" +
		"\"Player \\\"One\\\"\"=\"Caf\xe9\"\r\n" +
		"\r\n" +
		"[HKEY_CLASSES_ROOT\\.map]\r\n" +
		"@=\"MapFile\"\r\n" +
		"[-HKEY_LOCAL_MACHINE\\SOFTWARE\\Old]\r\n"

	s := NewStore()
	stats, err := s.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Keys)
	assert.Equal(t, 4, stats.Values)
	assert.Equal(t, 3, stats.Skipped)

	k := s.Open(LocalMachine, `SOFTWARE\Electronic Arts\EA Games\Generals`)
	v, err := k.Query("InstallPath")
	require.NoError(t, err)
	assert.Equal(t, `C:\Games\Generals\`, v.Str)

	v, err = k.Query("Version")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x10004), v.DWORD)

	v, err = k.Query("")
	require.NoError(t, err)
	assert.Equal(t, "default", v.Str)

	v, err = s.Open(CurrentUser, "Software/Generals").Query(`Player "One"`)
	require.NoError(t, err)
	assert.Equal(t, "Café", v.Str, "Windows-1252 is decoded to UTF-8")
}

func TestLoadUTF16(t *testing.T) {
	text := "Windows Registry Editor Version 5.00\r\n\r\n" +
		"[HKEY_CURRENT_USER\\Software\\Generals]\r\n" +
		"\"Nom\"=\"Général\"\r\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(text)
	require.NoError(t, err)

	s := NewStore()
	stats, err := s.Load(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Values)

	v, err := s.Open(CurrentUser, `Software\Generals`).Query("Nom")
	require.NoError(t, err)
	assert.Equal(t, "Général", v.Str)
}

func TestLoadErrors(t *testing.T) {
	_, err := NewStore().Load(strings.NewReader("[HKEY_NOWHERE\\x]\n"))
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindInvalidInput})

	_, err = NewStore().Load(strings.NewReader("[HKLM\\x]\nnot a value\n"))
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindInvalidInput})
}

func TestLoadFileMissing(t *testing.T) {
	_, err := NewStore().LoadFile(t.TempDir() + "/none.reg")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindConfig})
}

func TestKeyRelative(t *testing.T) {
	s := NewStore()
	base := s.Open(LocalMachine, "SOFTWARE")
	assert.False(t, base.Exists())

	child := base.Create(`Electronic Arts\Generals`)
	assert.True(t, child.Exists())
	assert.True(t, base.Exists())
	assert.Equal(t, `SOFTWARE\Electronic Arts\Generals`, child.Path())
	assert.Equal(t, "SOFTWARE", base.Path(), "base path is not aliased")

	require.NoError(t, child.Set("Version", DWORDValue(2)))
	v, err := s.Open(LocalMachine, `software\electronic arts\generals`).Query("version")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v.DWORD)

	assert.False(t, base.Open("Other").Exists())
}
