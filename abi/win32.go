package abi

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/hostapi"
)

// ModuleWin32 is the host module the engine imports Win32 entry points from.
const ModuleWin32 = "win32"

// Win32 binds every host-API entry point of s, plus the declared stubs.
func Win32(s *hostapi.Surface) *VTable {
	methods := []Method{
		// time
		fn("timeBeginPeriod", 1, 1, func(f *frame) { f.ret(s.TimeBeginPeriod(f.u32(0))) }),
		fn("timeEndPeriod", 1, 1, func(f *frame) { f.ret(s.TimeEndPeriod(f.u32(0))) }),
		fn("timeGetTime", 0, 1, func(f *frame) { f.ret(s.TimeGetTime()) }),
		fn("GetTickCount", 0, 1, func(f *frame) { f.ret(s.GetTickCount()) }),
		fn("Sleep", 1, 0, func(f *frame) { s.Sleep(f.u32(0)) }),
		fn("QueryPerformanceCounter", 1, 1, func(f *frame) {
			f.ret(s.QueryPerformanceCounter(f.memory(), f.u32(0)))
		}),
		fn("QueryPerformanceFrequency", 1, 1, func(f *frame) {
			f.ret(s.QueryPerformanceFrequency(f.memory(), f.u32(0)))
		}),
		fn("GetLocalTime", 1, 0, func(f *frame) { s.GetLocalTime(f.memory(), f.u32(0)) }),

		// process
		fn("GetModuleFileName", 3, 1, func(f *frame) {
			f.ret(s.GetModuleFileName(f.memory(), f.u32(0), f.u32(1), f.u32(2)))
		}),
		fn("GetDoubleClickTime", 0, 1, func(f *frame) { f.ret(s.GetDoubleClickTime()) }),
		fn("GetCurrentThreadId", 0, 1, func(f *frame) { f.ret(s.GetCurrentThreadId()) }),
		fn("GetCurrentDirectory", 2, 1, func(f *frame) {
			f.ret(s.GetCurrentDirectory(f.memory(), f.u32(0), f.u32(1)))
		}),
		fn("_access", 2, 1, func(f *frame) { f.reti(s.Access(f.memory(), f.u32(0), f.i32(1))) }),
		fn("GetUserName", 2, 1, func(f *frame) { f.ret(s.GetUserName(f.memory(), f.u32(0), f.u32(1))) }),
		fn("GetComputerName", 2, 1, func(f *frame) { f.ret(s.GetComputerName(f.memory(), f.u32(0), f.u32(1))) }),
		fn("GetLastError", 0, 1, func(f *frame) { f.ret(s.GetLastError()) }),

		// heap
		fn("GlobalAlloc", 2, 1, func(f *frame) {
			f.ret(s.GlobalAlloc(f.memory(), f.allocator(), f.u32(0), f.u32(1)))
		}),
		fn("GlobalFree", 1, 1, func(f *frame) { f.ret(s.GlobalFree(f.allocator(), f.u32(0))) }),

		// registry
		fn("RegOpenKeyEx", 5, 1, func(f *frame) {
			f.ret(s.RegOpenKeyEx(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.u32(3), f.u32(4)))
		}),
		fn("RegCreateKeyEx", 9, 1, func(f *frame) {
			f.ret(s.RegCreateKeyEx(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.u32(3), f.u32(4),
				f.u32(5), f.u32(6), f.u32(7), f.u32(8)))
		}),
		fn("RegQueryValueEx", 6, 1, func(f *frame) {
			f.ret(s.RegQueryValueEx(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.u32(3), f.u32(4), f.u32(5)))
		}),
		fn("RegSetValueEx", 6, 1, func(f *frame) {
			f.ret(s.RegSetValueEx(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.u32(3), f.u32(4), f.u32(5)))
		}),
		fn("RegCloseKey", 1, 1, func(f *frame) { f.ret(s.RegCloseKey(f.u32(0))) }),

		// synchronization
		fn("InitializeCriticalSection", 1, 0, func(f *frame) { s.InitializeCriticalSection(f.memory(), f.u32(0)) }),
		fn("EnterCriticalSection", 1, 0, func(f *frame) { s.EnterCriticalSection(f.memory(), f.u32(0)) }),
		fn("LeaveCriticalSection", 1, 0, func(f *frame) { s.LeaveCriticalSection(f.memory(), f.u32(0)) }),
		fn("DeleteCriticalSection", 1, 0, func(f *frame) { s.DeleteCriticalSection(f.memory(), f.u32(0)) }),
		fn("CreateMutex", 3, 1, func(f *frame) { f.ret(s.CreateMutex(f.memory(), f.u32(0), f.u32(1), f.u32(2))) }),
		fn("ReleaseMutex", 1, 1, func(f *frame) { f.ret(s.ReleaseMutex(f.u32(0))) }),
		fn("CreateEvent", 4, 1, func(f *frame) {
			f.ret(s.CreateEvent(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.u32(3)))
		}),
		fn("SetEvent", 1, 1, func(f *frame) { f.ret(s.SetEvent(f.u32(0))) }),
		fn("ResetEvent", 1, 1, func(f *frame) { f.ret(s.ResetEvent(f.u32(0))) }),
		fn("WaitForSingleObject", 2, 1, func(f *frame) { f.ret(s.WaitForSingleObject(f.u32(0), f.u32(1))) }),
		fn("CloseHandle", 1, 1, func(f *frame) { f.ret(s.CloseHandle(f.u32(0))) }),

		// ui and diagnostics
		fn("MessageBox", 4, 1, func(f *frame) {
			f.reti(s.MessageBox(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.u32(3)))
		}),
		fn("DebugBreak", 0, 0, func(f *frame) { s.DebugBreak() }),
		fn("OutputDebugString", 1, 0, func(f *frame) { s.OutputDebugString(f.memory(), f.u32(0)) }),

		// file enumeration
		fn("FindFirstFile", 2, 1, func(f *frame) { f.ret(s.FindFirstFile(f.memory(), f.u32(0), f.u32(1))) }),
		fn("FindNextFile", 2, 1, func(f *frame) { f.ret(s.FindNextFile(f.memory(), f.u32(0), f.u32(1))) }),
		fn("FindClose", 1, 1, func(f *frame) { f.ret(s.FindClose(f.u32(0))) }),
		fn("CreateDirectory", 2, 1, func(f *frame) { f.ret(s.CreateDirectory(f.memory(), f.u32(0), f.u32(1))) }),
		fn("DeleteFile", 1, 1, func(f *frame) { f.ret(s.DeleteFile(f.memory(), f.u32(0))) }),
		fn("CopyFile", 3, 1, func(f *frame) { f.ret(s.CopyFile(f.memory(), f.u32(0), f.u32(1), f.u32(2))) }),

		// strings
		fn("MultiByteToWideChar", 6, 1, func(f *frame) {
			f.reti(s.MultiByteToWideChar(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.i32(3), f.u32(4), f.i32(5)))
		}),
		fn("WideCharToMultiByte", 8, 1, func(f *frame) {
			f.reti(s.WideCharToMultiByte(f.memory(), f.u32(0), f.u32(1), f.u32(2), f.i32(3), f.u32(4), f.i32(5),
				f.u32(6), f.u32(7)))
		}),
		fn("itoa", 3, 1, func(f *frame) { f.ret(s.Itoa(f.memory(), f.i32(0), f.u32(1), f.i32(2))) }),
		fn("iswascii", 1, 1, func(f *frame) { f.reti(s.Iswascii(f.i32(0))) }),

		// math
		{
			Name: "D3DXVec4Dot",
			Fn: func(ctx context.Context, mod api.Module, stack []uint64) {
				f := &frame{ctx: ctx, mod: mod, stack: stack}
				stack[0] = api.EncodeF32(s.D3DXVec4Dot(f.memory(), f.u32(0), f.u32(1)))
			},
			Params:  i32s(2),
			Results: []api.ValueType{api.ValueTypeF32},
		},
		fn("D3DXVec4Transform", 3, 1, func(f *frame) {
			f.ret(s.D3DXVec4Transform(f.memory(), f.u32(0), f.u32(1), f.u32(2)))
		}),
		fn("D3DXMatrixInverse", 3, 1, func(f *frame) {
			f.ret(s.D3DXMatrixInverse(f.memory(), f.u32(0), f.u32(1), f.u32(2)))
		}),
	}

	for _, stub := range hostapi.Stubs {
		name := stub.Name
		results := 0
		if stub.Returns {
			results = 1
		}
		methods = append(methods, fn(name, stub.Params, results, func(*frame) { s.Unimplemented(name) }))
	}
	return NewVTable(ModuleWin32, methods...)
}
