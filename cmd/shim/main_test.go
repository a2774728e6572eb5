package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/bridge"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/config"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
)

// startModule exports an empty _start.
var startModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

// importingModule imports win32.GetTickCount and win32.Bogus.
var importingModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7f,
	0x02, 0x24, 0x02,
	0x05, 'w', 'i', 'n', '3', '2', 0x0c, 'G', 'e', 't', 'T', 'i', 'c', 'k', 'C', 'o', 'u', 'n', 't', 0x00, 0x00,
	0x05, 'w', 'i', 'n', '3', '2', 0x05, 'B', 'o', 'g', 'u', 's', 0x00, 0x00,
}

// execute runs the command line args with a clean GENERALS_* environment.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, name := range []string{config.EnvRoot, config.EnvMarker, config.EnvRegistry, config.EnvStrictListing, config.EnvLogLevel, config.EnvLogJSON} {
		t.Setenv(name, "")
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func gameRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "INI.big"), make([]byte, 2048))
	writeFile(t, filepath.Join(root, "Data", "INI", "GameData.ini"), []byte("GameData\nEnd\n"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Maps", "Alpine Assault"), 0o755))
	return root
}

func TestLsCommand(t *testing.T) {
	root := gameRoot(t)

	tests := []struct {
		name           string
		args           []string
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "top level",
			args:           []string{"ls", "*.big"},
			wantContain:    []string{"INI.big", "2.0 KiB", "1 files"},
			wantNotContain: []string{"GameData.ini"},
		},
		{
			name:        "recursive",
			args:        []string{"ls", "--recurse", "*.ini"},
			wantContain: []string{"Data/INI/GameData.ini", "1 files"},
		},
		{
			name:           "files only",
			args:           []string{"ls", "--recurse"},
			wantContain:    []string{"INI.big", "Data/INI/GameData.ini", "2 files"},
			wantNotContain: []string{"Alpine Assault"},
		},
		{
			name:        "find reports directories",
			args:        []string{"ls", "--find", `Maps\*`},
			wantContain: []string{"Maps/Alpine Assault/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--root", root}, tt.args...)...)
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.wantNotContain {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestLsRequiresRoot(t *testing.T) {
	_, err := execute(t, "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvRoot)
}

func TestRegCommand(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "generals.reg")
	writeFile(t, seed, []byte(`Windows Registry Editor Version 5.00

[HKEY_LOCAL_MACHINE\SOFTWARE\Electronic Arts\EA Games\Generals]
"InstallPath"="C:\\Games\\Generals"
"Version"=dword:00010004
"Blob"=hex:01,02

[HKEY_CURRENT_USER\Software\Electronic Arts\EA Games\Generals]
"Language"="english"
`))

	out, err := execute(t, "--registry", seed, "reg")
	require.NoError(t, err)
	assert.Contains(t, out, "; 2 keys, 3 values, 1 skipped")
	assert.Contains(t, out, `[HKEY_LOCAL_MACHINE\SOFTWARE\Electronic Arts\EA Games\Generals]`)
	assert.Contains(t, out, `"InstallPath"="C:\\Games\\Generals"`)
	assert.Contains(t, out, `"Version"=dword:00010004`)
	assert.Contains(t, out, `"Language"="english"`)

	out, err = execute(t, "--registry", seed, "reg", `HKCU\software\electronic arts`)
	require.NoError(t, err)
	assert.Contains(t, out, `"Language"="english"`)
	assert.NotContains(t, out, "InstallPath")

	_, err = execute(t, "--registry", seed, "reg", `HKLM\SOFTWARE\Missing`)
	assert.Error(t, err)

	_, err = execute(t, "--registry", seed, "reg", `HKEY_CLASSES_ROOT\.big`)
	assert.Error(t, err)
}

func TestStatCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wasm")
	bad := filepath.Join(dir, "bad.wasm")
	writeFile(t, good, startModule)
	writeFile(t, bad, importingModule)

	out, err := execute(t, "stat", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Exports: 1")
	assert.Contains(t, out, "Imports: 0 (0 missing)")

	out, err = execute(t, "stat", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 unresolved imports")
	assert.Contains(t, out, "win32")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "missing Bogus")
}

func TestRunCommand(t *testing.T) {
	root := gameRoot(t)
	engine := filepath.Join(t.TempDir(), "generals.wasm")
	writeFile(t, engine, startModule)

	_, err := execute(t, "--root", root, "run", engine)
	assert.NoError(t, err)

	_, err = execute(t, "--root", root, "run", filepath.Join(root, "missing.wasm"))
	assert.Error(t, err)
}

func TestInspectModelFilters(t *testing.T) {
	dir := t.TempDir()
	engine := filepath.Join(dir, "bad.wasm")
	writeFile(t, engine, importingModule)

	opts := &options{cfg: config.Default()}
	info, size, err := inspectEngine(t.Context(), opts, engine)
	require.NoError(t, err)
	assert.Equal(t, len(importingModule), size)

	m := newInspectModel(engine, size, info)
	assert.Len(t, m.visible, 2)

	m.missingOnly = true
	m.refresh()
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Bogus", m.visible[0].Name)

	m.missingOnly = false
	m.filter.SetValue("tick")
	m.refresh()
	require.Len(t, m.visible, 1)
	assert.Equal(t, "GetTickCount", m.visible[0].Name)

	assert.Contains(t, m.View(), "1 missing")
}

func TestSetLoggersNamesEachPackageOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	setLoggers(zap.New(core))
	t.Cleanup(func() { setLoggers(zap.NewNop()) })

	bridge.CreateGameEngine(bridge.Options{FS: filesystem.New(filesystem.Options{Root: t.TempDir()})})

	entries := logs.FilterMessage("CreateGameEngine").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bridge", entries[0].LoggerName)
}
