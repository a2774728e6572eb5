package hostapi

import (
	"time"

	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
)

// performanceFrequency is the QueryPerformanceCounter tick rate.
const performanceFrequency = uint64(time.Second)

// TimeBeginPeriod accepts any timer resolution request.
func (s *Surface) TimeBeginPeriod(period uint32) uint32 {
	s.log.Debug("timeBeginPeriod", zap.Uint32("period", period))
	return 0
}

// TimeEndPeriod accepts any timer resolution release.
func (s *Surface) TimeEndPeriod(period uint32) uint32 {
	s.log.Debug("timeEndPeriod", zap.Uint32("period", period))
	return 0
}

func (s *Surface) elapsed() time.Duration {
	return s.clock.Now().Sub(s.start)
}

// TimeGetTime returns milliseconds since the surface started, wrapping at 2^32.
func (s *Surface) TimeGetTime() uint32 {
	ms := uint32(s.elapsed().Milliseconds())
	s.log.Debug("timeGetTime", zap.Uint32("ms", ms))
	return ms
}

// GetTickCount returns milliseconds since the surface started, wrapping at 2^32.
func (s *Surface) GetTickCount() uint32 {
	ms := uint32(s.elapsed().Milliseconds())
	s.log.Debug("GetTickCount", zap.Uint32("ms", ms))
	return ms
}

// Sleep blocks the calling engine thread.
func (s *Surface) Sleep(ms uint32) {
	s.log.Debug("Sleep", zap.Uint32("ms", ms))
	s.clock.Sleep(time.Duration(ms) * time.Millisecond)
}

// QueryPerformanceCounter writes the current tick count as a LARGE_INTEGER.
func (s *Surface) QueryPerformanceCounter(mem shim.Memory, countPtr uint32) uint32 {
	ticks := uint64(s.elapsed().Nanoseconds())
	writeU64(mem, countPtr, ticks)
	s.log.Debug("QueryPerformanceCounter", zap.Uint64("ticks", ticks))
	return True
}

// QueryPerformanceFrequency writes the tick rate as a LARGE_INTEGER.
func (s *Surface) QueryPerformanceFrequency(mem shim.Memory, freqPtr uint32) uint32 {
	writeU64(mem, freqPtr, performanceFrequency)
	s.log.Debug("QueryPerformanceFrequency", zap.Uint64("frequency", performanceFrequency))
	return True
}

// GetLocalTime fills a SYSTEMTIME with the local wall clock.
func (s *Surface) GetLocalTime(mem shim.Memory, ptr uint32) {
	now := s.clock.Now().Local()
	fields := [SystemTimeSize / 2]uint16{
		uint16(now.Year()),
		uint16(now.Month()),
		uint16(now.Weekday()),
		uint16(now.Day()),
		uint16(now.Hour()),
		uint16(now.Minute()),
		uint16(now.Second()),
		uint16(now.Nanosecond() / int(time.Millisecond)),
	}
	for i, v := range fields {
		writeU16(mem, ptr+uint32(i*2), v)
	}
	s.log.Debug("GetLocalTime", zap.Time("now", now))
}
