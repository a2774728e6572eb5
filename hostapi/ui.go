package hostapi

import (
	"strings"

	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
)

// MessageBox logs the message and reports IDOK.
func (s *Surface) MessageBox(mem shim.Memory, hwnd, textPtr, captionPtr, typ uint32) int32 {
	s.log.Info("MessageBox",
		zap.Uint32("hwnd", hwnd),
		zap.String("text", readCString(mem, textPtr)),
		zap.String("caption", readCString(mem, captionPtr)),
		zap.Uint32("type", typ))
	return IDOK
}

// DebugBreak terminates the process with status 1.
func (s *Surface) DebugBreak() {
	s.log.Error("DebugBreak")
	_ = s.log.Sync()
	s.exit(1)
}

// OutputDebugString forwards engine diagnostics to the Generals logger.
func (s *Surface) OutputDebugString(mem shim.Memory, strPtr uint32) {
	s.engine.Debug(strings.TrimSpace(readCString(mem, strPtr)))
}
