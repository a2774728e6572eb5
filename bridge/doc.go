// Package bridge supplies the subsystem implementations the engine expects its
// host to provide.
//
// Engine overrides GameEngine. Each Create method may be called once per
// engine lifetime and transfers ownership of the new subsystem to the caller.
// Methods route one of three ways:
//
//   - LocalFileSystem is overridden by a filesystem.Adapter.
//   - GameLogic, FunctionLexicon, ModuleFactory, ThingFactory, GameClient and
//     ArchiveFileSystem forward their lifecycle to the engine's own
//     implementation through Native.
//   - Radar drawing, audio playback and particle system creation abort as
//     unimplemented.
//
// Subsystems implement handle.Object so they can cross the guest boundary as
// handles.
package bridge
