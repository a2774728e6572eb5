package hostapi

import (
	"os"
	"os/user"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

// Clock is the time source behind the time entry points.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options configures a Surface. Zero fields take process defaults.
type Options struct {
	Handles      *handle.Table
	Registry     *registry.Store
	FS           *filesystem.Adapter
	Clock        Clock
	Exit         func(code int)
	ExePath      string
	UserName     string
	ComputerName string
}

// Surface implements the Win32 entry points the engine imports.
// Pointer arguments are guest addresses resolved against the Memory passed to
// each call.
type Surface struct {
	handles  *handle.Table
	registry *registry.Store
	fs       *filesystem.Adapter
	clock    Clock
	exit     func(int)
	start    time.Time
	log      *zap.Logger
	engine   *zap.Logger

	exePath      string
	userName     string
	computerName string

	lastError atomic.Uint32

	allocMu sync.Mutex
	allocs  map[uint32]uint32 // GlobalAlloc pointer -> size
}

// New creates a Surface.
func New(opts Options) *Surface {
	s := &Surface{
		handles:      opts.Handles,
		registry:     opts.Registry,
		fs:           opts.FS,
		clock:        opts.Clock,
		exit:         opts.Exit,
		exePath:      opts.ExePath,
		userName:     opts.UserName,
		computerName: opts.ComputerName,
		log:          Logger().Named("win32"),
		engine:       Logger().Named("Generals"),
		allocs:       make(map[uint32]uint32),
	}
	if s.handles == nil {
		s.handles = handle.Default()
	}
	if s.registry == nil {
		s.registry = registry.NewStore()
	}
	if s.clock == nil {
		s.clock = systemClock{}
	}
	if s.exit == nil {
		s.exit = os.Exit
	}
	if s.exePath == "" {
		s.exePath, _ = os.Executable()
	}
	if s.userName == "" {
		if u, err := user.Current(); err == nil {
			s.userName = u.Username
		}
	}
	if s.computerName == "" {
		s.computerName, _ = os.Hostname()
	}
	s.start = s.clock.Now()
	return s
}

// Handles returns the handle table the surface allocates from.
func (s *Surface) Handles() *handle.Table {
	return s.handles
}

// Registry returns the registry store behind the Reg* entry points.
func (s *Surface) Registry() *registry.Store {
	return s.registry
}

func (s *Surface) setLastError(code uint32) {
	s.lastError.Store(code)
}

// GetLastError returns the error code of the last failing call.
func (s *Surface) GetLastError() uint32 {
	code := s.lastError.Load()
	s.log.Debug("GetLastError", zap.Uint32("code", code))
	return code
}

func boolResult(ok bool) uint32 {
	if ok {
		return True
	}
	return False
}
