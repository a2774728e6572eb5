package bridge

import (
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// Kind identifies one of the engine subsystems created through GameEngine.
type Kind uint8

const (
	KindLocalFileSystem Kind = iota + 1
	KindArchiveFileSystem
	KindGameLogic
	KindRadar
	KindFunctionLexicon
	KindAudioManager
	KindParticleSystemManager
	KindModuleFactory
	KindThingFactory
	KindGameClient
)

// Kinds lists every subsystem in the order the engine creates them at startup.
var Kinds = []Kind{
	KindLocalFileSystem,
	KindArchiveFileSystem,
	KindAudioManager,
	KindFunctionLexicon,
	KindModuleFactory,
	KindParticleSystemManager,
	KindThingFactory,
	KindGameClient,
	KindGameLogic,
	KindRadar,
}

func (k Kind) String() string {
	switch k {
	case KindLocalFileSystem:
		return "LocalFileSystem"
	case KindArchiveFileSystem:
		return "ArchiveFileSystem"
	case KindGameLogic:
		return "GameLogic"
	case KindRadar:
		return "Radar"
	case KindFunctionLexicon:
		return "FunctionLexicon"
	case KindAudioManager:
		return "AudioManager"
	case KindParticleSystemManager:
		return "ParticleSystemManager"
	case KindModuleFactory:
		return "ModuleFactory"
	case KindThingFactory:
		return "ThingFactory"
	case KindGameClient:
		return "GameClient"
	default:
		return "unknown"
	}
}

// Subsystem is the lifecycle every engine subsystem exposes.
//
// Init runs once after construction. Update runs periodically and must not
// block. Reset returns the subsystem to a fresh state without destroying it.
type Subsystem interface {
	handle.Object
	Kind() Kind
	Init()
	Update()
	Reset()
}

// LocalFileSystem reads loose game data under the data root.
type LocalFileSystem interface {
	Subsystem
	OpenFile(path string) *filesystem.File
	DoesFileExist(path string) bool
	GetFileListInDirectory(currentDir, originalDir, pattern string, list filesystem.NameList, recurse bool)
	CreateDirectory(path string) bool
	GetFileInfo(path string) bool
}

type ArchiveFileSystem interface{ Subsystem }

type GameLogic interface{ Subsystem }

type FunctionLexicon interface{ Subsystem }

type ModuleFactory interface{ Subsystem }

type ThingFactory interface{ Subsystem }

type GameClient interface{ Subsystem }

// Radar draws the minimap.
type Radar interface {
	Subsystem
	Draw(pixelX, pixelY, width, height int32)
}

// AudioManager plays audio events.
type AudioManager interface {
	Subsystem
	AddAudioEvent(name string) uint32
	StopAudio(which uint32)
}

// ParticleSystemManager owns particle systems.
type ParticleSystemManager interface {
	Subsystem
	CreateParticleSystem(template string) uint32
}

// GameEngine creates the subsystems. Each factory method is called once per
// engine lifetime and the caller owns the returned instance.
type GameEngine interface {
	CreateLocalFileSystem() LocalFileSystem
	CreateArchiveFileSystem() ArchiveFileSystem
	CreateGameLogic() GameLogic
	CreateRadar() Radar
	CreateFunctionLexicon() FunctionLexicon
	CreateAudioManager() AudioManager
	CreateParticleSystemManager() ParticleSystemManager
	CreateModuleFactory() ModuleFactory
	CreateThingFactory() ThingFactory
	CreateGameClient() GameClient
}

// Lifecycle is the engine's own implementation of a subsystem's lifecycle.
type Lifecycle interface {
	Init()
	Update()
	Reset()
}

// Native constructs the engine's own concrete subsystems. Overrides that are
// not ready forward their lifecycle to these.
type Native interface {
	New(kind Kind) Lifecycle
}
