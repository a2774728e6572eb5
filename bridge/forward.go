package bridge

import (
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// forwarded routes the lifecycle to the engine's own implementation. With no
// native target every method aborts.
type forwarded struct {
	kind   Kind
	target Lifecycle
	log    *zap.Logger
}

func newForwarded(kind Kind, native Native, log *zap.Logger) *forwarded {
	f := &forwarded{kind: kind, log: log}
	if native != nil {
		f.target = native.New(kind)
	}
	return f
}

func (*forwarded) ObjectType() handle.ObjectType { return handle.ObjectSubsystem }

func (f *forwarded) Kind() Kind { return f.kind }

func (f *forwarded) Init() {
	f.lifecycle("init").Init()
}

func (f *forwarded) Update() {
	f.lifecycle("update").Update()
}

func (f *forwarded) Reset() {
	f.lifecycle("reset").Reset()
}

func (f *forwarded) lifecycle(method string) Lifecycle {
	if f.target == nil {
		unimplemented(f.kind, method)
	}
	f.log.Debug("forward", zap.Stringer("subsystem", f.kind), zap.String("method", method))
	return f.target
}

func unimplemented(kind Kind, method string) {
	errors.Abort(errors.Unimplemented(errors.PhaseBridge, kind.String()+"."+method))
}

type archiveFileSystem struct{ *forwarded }
type gameLogic struct{ *forwarded }
type functionLexicon struct{ *forwarded }
type moduleFactory struct{ *forwarded }
type thingFactory struct{ *forwarded }
type gameClient struct{ *forwarded }

type radar struct{ *forwarded }

func (r radar) Draw(pixelX, pixelY, width, height int32) {
	unimplemented(r.kind, "draw")
}

type audioManager struct{ *forwarded }

func (a audioManager) AddAudioEvent(name string) uint32 {
	unimplemented(a.kind, "addAudioEvent")
	return 0
}

func (a audioManager) StopAudio(which uint32) {
	unimplemented(a.kind, "stopAudio")
}

type particleSystemManager struct{ *forwarded }

func (p particleSystemManager) CreateParticleSystem(template string) uint32 {
	unimplemented(p.kind, "createParticleSystem")
	return 0
}
