package abi

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/bridge"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/hostapi"
)

// Host modules exposing the subsystem interfaces.
const (
	ModuleGameEngine            = "GameEngine"
	ModuleSubsystem             = "Subsystem"
	ModuleLocalFileSystem       = "LocalFileSystem"
	ModuleFile                  = "File"
	ModuleRadar                 = "Radar"
	ModuleAudioManager          = "AudioManager"
	ModuleParticleSystemManager = "ParticleSystemManager"
)

// EngineFactory builds the GameEngine override. native is nil when the engine
// exports no native subsystems.
type EngineFactory func(native bridge.Native) *bridge.Engine

// Bindings holds what the subsystem tables dispatch to.
type Bindings struct {
	Handles   *handle.Table
	NewEngine EngineFactory
}

func must(err error) {
	if err == nil {
		return
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		errors.Abort(e)
	}
	errors.Abort(errors.Wrap(errors.PhaseABI, errors.KindOutOfBounds, err, "guest memory access"))
}

func (b Bindings) subsystem(f *frame, i int, call string) bridge.Subsystem {
	return handle.MustLookup[bridge.Subsystem](b.Handles, handle.Handle(f.u32(i)), call)
}

func (b Bindings) localFS(f *frame, call string) bridge.LocalFileSystem {
	return handle.MustLookup[bridge.LocalFileSystem](b.Handles, handle.Handle(f.u32(0)), call)
}

func (b Bindings) file(f *frame, call string) *filesystem.File {
	return handle.MustLookup[*filesystem.File](b.Handles, handle.Handle(f.u32(0)), call)
}

func (b Bindings) str(f *frame, i int) string {
	return hostapi.ReadCString(f.memory(), f.u32(i))
}

// Tables returns the vtables for the engine factory and every subsystem
// interface.
func (b Bindings) Tables() []*VTable {
	return []*VTable{
		b.GameEngine(),
		b.Subsystem(),
		b.LocalFileSystem(),
		b.File(),
		b.Radar(),
		NewVTable(ModuleAudioManager,
			fn("addAudioEvent", 2, 1, func(f *frame) {
				a := handle.MustLookup[bridge.AudioManager](b.Handles, handle.Handle(f.u32(0)), "AudioManager.addAudioEvent")
				f.ret(a.AddAudioEvent(b.str(f, 1)))
			}),
			fn("stopAudio", 2, 0, func(f *frame) {
				a := handle.MustLookup[bridge.AudioManager](b.Handles, handle.Handle(f.u32(0)), "AudioManager.stopAudio")
				a.StopAudio(f.u32(1))
			}),
		),
		NewVTable(ModuleParticleSystemManager,
			fn("createParticleSystem", 2, 1, func(f *frame) {
				p := handle.MustLookup[bridge.ParticleSystemManager](b.Handles, handle.Handle(f.u32(0)), "ParticleSystemManager.createParticleSystem")
				f.ret(p.CreateParticleSystem(b.str(f, 1)))
			}),
		),
	}
}

// GameEngine exports the engine factory and the ten subsystem factories.
// Each factory takes the engine handle and returns a subsystem handle owned by
// the caller.
func (b Bindings) GameEngine() *VTable {
	methods := []Method{
		fn("CreateGameEngine", 0, 1, func(f *frame) {
			engine := b.NewEngine(NewGuestNative(f.ctx, f.mod))
			f.ret(uint32(b.Handles.Open(engine)))
		}),
	}
	for _, kind := range bridge.Kinds {
		kind := kind
		call := "create" + kind.String()
		methods = append(methods, fn(call, 1, 1, func(f *frame) {
			engine := handle.MustLookup[*bridge.Engine](b.Handles, handle.Handle(f.u32(0)), call)
			h := b.Handles.Open(engine.Create(kind))
			Logger().Debug(call, zap.Uint32("handle", uint32(h)))
			f.ret(uint32(h))
		}))
	}
	return NewVTable(ModuleGameEngine, methods...)
}

// Subsystem exports the lifecycle shared by every subsystem. destroy closes
// the handle; the engine owns the instance until then.
func (b Bindings) Subsystem() *VTable {
	return NewVTable(ModuleSubsystem,
		fn("init", 1, 0, func(f *frame) { b.subsystem(f, 0, "Subsystem.init").Init() }),
		fn("update", 1, 0, func(f *frame) { b.subsystem(f, 0, "Subsystem.update").Update() }),
		fn("reset", 1, 0, func(f *frame) { b.subsystem(f, 0, "Subsystem.reset").Reset() }),
		fn("destroy", 1, 0, func(f *frame) {
			s := b.subsystem(f, 0, "Subsystem.destroy")
			Logger().Debug("Subsystem.destroy", zap.Stringer("subsystem", s.Kind()), zap.Uint32("handle", f.u32(0)))
			b.Handles.Close(handle.Handle(f.u32(0)))
		}),
	)
}

// LocalFileSystem exports the file system override. A file that cannot be
// opened yields handle 0.
func (b Bindings) LocalFileSystem() *VTable {
	return NewVTable(ModuleLocalFileSystem,
		fn("openFile", 2, 1, func(f *frame) {
			file := b.localFS(f, "LocalFileSystem.openFile").OpenFile(b.str(f, 1))
			if file == nil {
				f.ret(uint32(handle.Invalid))
				return
			}
			f.ret(uint32(b.Handles.Open(file)))
		}),
		fn("doesFileExist", 2, 1, func(f *frame) {
			f.ret(boolU32(b.localFS(f, "LocalFileSystem.doesFileExist").DoesFileExist(b.str(f, 1))))
		}),
		fn("getFileListInDirectory", 6, 0, func(f *frame) {
			lfs := b.localFS(f, "LocalFileSystem.getFileListInDirectory")
			lfs.GetFileListInDirectory(b.str(f, 1), b.str(f, 2), b.str(f, 3), newGuestNameList(f, f.u32(4)), f.u32(5) != 0)
		}),
		fn("createDirectory", 2, 1, func(f *frame) {
			f.ret(boolU32(b.localFS(f, "LocalFileSystem.createDirectory").CreateDirectory(b.str(f, 1))))
		}),
		fn("getFileInfo", 3, 1, func(f *frame) {
			f.ret(boolU32(b.localFS(f, "LocalFileSystem.getFileInfo").GetFileInfo(b.str(f, 1))))
		}),
	)
}

// File exports reads on files opened through LocalFileSystem.
func (b Bindings) File() *VTable {
	return NewVTable(ModuleFile,
		fn("read", 3, 1, func(f *frame) {
			file := b.file(f, "File.read")
			dst, err := f.memory().Read(f.u32(1), f.u32(2))
			must(err)
			f.ret(uint32(file.Read(dst)))
		}),
		fn("seek", 3, 1, func(f *frame) {
			pos := b.file(f, "File.seek").Seek(int64(f.i32(1)), int(f.i32(2)))
			f.ret(uint32(pos))
		}),
		fn("size", 1, 1, func(f *frame) { f.ret(uint32(b.file(f, "File.size").Size())) }),
		fn("close", 1, 1, func(f *frame) {
			b.file(f, "File.close")
			f.ret(boolU32(b.Handles.Close(handle.Handle(f.u32(0)))))
		}),
	)
}

// Radar exports minimap drawing, which aborts.
func (b Bindings) Radar() *VTable {
	return NewVTable(ModuleRadar,
		fn("draw", 5, 0, func(f *frame) {
			r := handle.MustLookup[bridge.Radar](b.Handles, handle.Handle(f.u32(0)), "Radar.draw")
			r.Draw(f.i32(1), f.i32(2), f.i32(3), f.i32(4))
		}),
	)
}

func boolU32(ok bool) uint32 {
	if ok {
		return 1
	}
	return 0
}
