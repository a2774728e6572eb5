package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

type recordingNative struct {
	calls []string
}

type recordingLifecycle struct {
	kind   Kind
	native *recordingNative
}

func (n *recordingNative) New(kind Kind) Lifecycle {
	n.calls = append(n.calls, "new "+kind.String())
	return &recordingLifecycle{kind: kind, native: n}
}

func (l *recordingLifecycle) Init()   { l.native.calls = append(l.native.calls, l.kind.String()+".init") }
func (l *recordingLifecycle) Update() { l.native.calls = append(l.native.calls, l.kind.String()+".update") }
func (l *recordingLifecycle) Reset()  { l.native.calls = append(l.native.calls, l.kind.String()+".reset") }

func newEngine(t *testing.T, native Native) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	return CreateGameEngine(Options{FS: filesystem.New(filesystem.Options{Root: root}), Native: native}), root
}

func expectAbort(t *testing.T, kind errors.Kind, fn func()) *errors.Error {
	t.Helper()
	var got *errors.Error
	func() {
		defer func() {
			e, ok := errors.FromPanic(recover())
			require.True(t, ok, "expected abort")
			got = e
		}()
		fn()
	}()
	assert.Equal(t, kind, got.Kind, got.Error())
	return got
}

func TestCreateOncePerKind(t *testing.T) {
	e, _ := newEngine(t, &recordingNative{})
	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			assert.False(t, e.Created(kind))
			s := e.Create(kind)
			require.NotNil(t, s)
			assert.Equal(t, kind, s.Kind())
			assert.Equal(t, handle.ObjectSubsystem, s.ObjectType())
			assert.True(t, e.Created(kind))

			err := expectAbort(t, errors.KindAssertion, func() { e.Create(kind) })
			assert.Equal(t, "create"+kind.String(), err.Call)
		})
	}
}

func TestCreateUnknownKind(t *testing.T) {
	e, _ := newEngine(t, nil)
	expectAbort(t, errors.KindInvalidInput, func() { e.Create(Kind(99)) })
}

func TestCreateGameEngineRequiresFS(t *testing.T) {
	expectAbort(t, errors.KindInvalidInput, func() { CreateGameEngine(Options{}) })
}

func TestForwardedLifecycle(t *testing.T) {
	native := &recordingNative{}
	e, _ := newEngine(t, native)

	logic := e.CreateGameLogic()
	logic.Init()
	logic.Update()
	logic.Reset()

	assert.Equal(t, []string{"new GameLogic", "GameLogic.init", "GameLogic.update", "GameLogic.reset"}, native.calls)
}

func TestForwardWithoutNativeAborts(t *testing.T) {
	e, _ := newEngine(t, nil)
	client := e.CreateGameClient()

	err := expectAbort(t, errors.KindUnimplemented, client.Init)
	assert.Equal(t, "GameClient.init", err.Call)
	expectAbort(t, errors.KindUnimplemented, client.Update)
}

func TestStubbedMethodsAbort(t *testing.T) {
	e, _ := newEngine(t, &recordingNative{})

	r := e.CreateRadar()
	r.Init()
	err := expectAbort(t, errors.KindUnimplemented, func() { r.Draw(0, 0, 128, 128) })
	assert.Equal(t, "Radar.draw", err.Call)

	audio := e.CreateAudioManager()
	expectAbort(t, errors.KindUnimplemented, func() { audio.AddAudioEvent("MusicTrack01") })
	expectAbort(t, errors.KindUnimplemented, func() { audio.StopAudio(0) })

	particles := e.CreateParticleSystemManager()
	err = expectAbort(t, errors.KindUnimplemented, func() { particles.CreateParticleSystem("SmokeTrail") })
	assert.Equal(t, "ParticleSystemManager.createParticleSystem", err.Call)
}

func TestLocalFileSystemInit(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	filesystem.SetLogger(zap.New(core))
	t.Cleanup(func() { filesystem.SetLogger(nil) })

	e, root := newEngine(t, nil)
	lfs := e.CreateLocalFileSystem()

	lfs.Init()
	assert.Equal(t, 1, logs.FilterMessage("sanity-check marker missing under root").Len(), "missing marker is a warning")

	require.NoError(t, os.WriteFile(filepath.Join(root, filesystem.DefaultMarker), nil, 0o644))
	lfs.Init()
	assert.Equal(t, 1, logs.Len())

	lfs.Update()
	lfs.Reset()
}

func TestLocalFileSystemDelegates(t *testing.T) {
	e, root := newEngine(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Data", "INI"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Data", "INI", "GameData.ini"), []byte("GameData\nEnd\n"), 0o644))

	lfs := e.CreateLocalFileSystem()

	assert.True(t, lfs.DoesFileExist(`Data\INI\GameData.ini`))
	assert.False(t, lfs.DoesFileExist("does/not/exist"))
	assert.Nil(t, lfs.OpenFile("does/not/exist"))

	f := lfs.OpenFile(`Data\INI\GameData.ini`)
	require.NotNil(t, f)
	t.Cleanup(f.Drop)
	buf := make([]byte, 8)
	assert.Equal(t, 8, f.Read(buf))
	assert.Equal(t, "GameData", string(buf))

	var list filesystem.FilenameList
	lfs.GetFileListInDirectory("", "", "*.ini", &list, true)
	assert.Equal(t, []string{"Data/INI/GameData.ini"}, list.Strings())

	expectAbort(t, errors.KindAssertion, func() {
		lfs.GetFileListInDirectory("Data", "", "*.ini", &list, true)
	})
	expectAbort(t, errors.KindUnimplemented, func() { lfs.CreateDirectory("Save") })
	expectAbort(t, errors.KindUnimplemented, func() { lfs.GetFileInfo("Data") })
}

func TestSubsystemsAsHandles(t *testing.T) {
	e, _ := newEngine(t, &recordingNative{})
	table := handle.NewTable()

	h := table.Open(e.CreateThingFactory())
	s, err := handle.Lookup[Subsystem](table, h)
	require.NoError(t, err)
	assert.Equal(t, KindThingFactory, s.Kind())

	_, err = handle.Lookup[LocalFileSystem](table, h)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseHandle, Kind: errors.KindTypeMismatch})
}
