package bridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// Options configures an Engine.
type Options struct {
	// FS backs the LocalFileSystem override. Required.
	FS *filesystem.Adapter

	// Native supplies the engine's own subsystems for forwarding. When nil,
	// forwarded methods abort as unimplemented.
	Native Native
}

// Engine is the GameEngine override. It hands out each subsystem once;
// ownership of the returned instance passes to the caller.
type Engine struct {
	fs      *filesystem.Adapter
	native  Native
	log     *zap.Logger
	mu      sync.Mutex
	created map[Kind]bool
}

var _ GameEngine = (*Engine)(nil)

func (*Engine) ObjectType() handle.ObjectType { return handle.ObjectGameEngine }

// CreateGameEngine is the engine factory entry point.
func CreateGameEngine(opts Options) *Engine {
	if opts.FS == nil {
		errors.Abort(errors.InvalidInput(errors.PhaseBridge, "CreateGameEngine requires a file system adapter"))
	}
	e := &Engine{
		fs:      opts.FS,
		native:  opts.Native,
		log:     Logger().Named("bridge"),
		created: make(map[Kind]bool),
	}
	e.log.Info("CreateGameEngine",
		zap.String("root", opts.FS.Root()),
		zap.Bool("native", opts.Native != nil))
	return e
}

// Created reports whether kind has been handed out.
func (e *Engine) Created(kind Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created[kind]
}

// claim marks kind as created. A second claim aborts.
func (e *Engine) claim(kind Kind) {
	e.mu.Lock()
	dup := e.created[kind]
	e.created[kind] = true
	e.mu.Unlock()

	call := "create" + kind.String()
	if dup {
		errors.Abort(errors.New(errors.PhaseBridge, errors.KindAssertion).
			Call(call).
			Detail("%s already created for this engine", kind).
			Build())
	}
	e.log.Debug(call)
}

func (e *Engine) forward(kind Kind) *forwarded {
	e.claim(kind)
	return newForwarded(kind, e.native, e.log)
}

// Create dispatches to the factory method for kind.
func (e *Engine) Create(kind Kind) Subsystem {
	switch kind {
	case KindLocalFileSystem:
		return e.CreateLocalFileSystem()
	case KindArchiveFileSystem:
		return e.CreateArchiveFileSystem()
	case KindGameLogic:
		return e.CreateGameLogic()
	case KindRadar:
		return e.CreateRadar()
	case KindFunctionLexicon:
		return e.CreateFunctionLexicon()
	case KindAudioManager:
		return e.CreateAudioManager()
	case KindParticleSystemManager:
		return e.CreateParticleSystemManager()
	case KindModuleFactory:
		return e.CreateModuleFactory()
	case KindThingFactory:
		return e.CreateThingFactory()
	case KindGameClient:
		return e.CreateGameClient()
	}
	errors.Abort(errors.New(errors.PhaseBridge, errors.KindInvalidInput).
		Value(kind).
		Detail("unknown subsystem kind %d", kind).
		Build())
	return nil
}

func (e *Engine) CreateLocalFileSystem() LocalFileSystem {
	e.claim(KindLocalFileSystem)
	return &localFileSystem{fs: e.fs, log: e.log}
}

func (e *Engine) CreateArchiveFileSystem() ArchiveFileSystem {
	return archiveFileSystem{e.forward(KindArchiveFileSystem)}
}

func (e *Engine) CreateGameLogic() GameLogic {
	return gameLogic{e.forward(KindGameLogic)}
}

func (e *Engine) CreateRadar() Radar {
	return radar{e.forward(KindRadar)}
}

func (e *Engine) CreateFunctionLexicon() FunctionLexicon {
	return functionLexicon{e.forward(KindFunctionLexicon)}
}

func (e *Engine) CreateAudioManager() AudioManager {
	return audioManager{e.forward(KindAudioManager)}
}

func (e *Engine) CreateParticleSystemManager() ParticleSystemManager {
	return particleSystemManager{e.forward(KindParticleSystemManager)}
}

func (e *Engine) CreateModuleFactory() ModuleFactory {
	return moduleFactory{e.forward(KindModuleFactory)}
}

func (e *Engine) CreateThingFactory() ThingFactory {
	return thingFactory{e.forward(KindThingFactory)}
}

func (e *Engine) CreateGameClient() GameClient {
	return gameClient{e.forward(KindGameClient)}
}
