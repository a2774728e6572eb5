package runtime

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// handleStats counts handle lifecycle events.
type handleStats struct {
	opened atomic.Uint64
	closed atomic.Uint64
}

func (s *handleStats) OnHandleEvent(e handle.Event) {
	switch e.Type {
	case handle.EventOpened:
		s.opened.Add(1)
	case handle.EventClosed:
		s.closed.Add(1)
	}
	Logger().Debug("handle event",
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Stringer("type", e.Object.ObjectType()),
		zap.Bool("opened", e.Type == handle.EventOpened))
}

func (s *handleStats) counts() (opened, closed uint64) {
	return s.opened.Load(), s.closed.Load()
}
