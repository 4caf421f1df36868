package stack

import (
	"runtime/debug"
	"unsafe"
)

// Memory reads pointer-sized words from the address space being unwound.
type Memory interface {
	ReadWord(addr, size uintptr) (uintptr, bool)
}

// SelfMemory reads the current process. A read that faults fails instead
// of crashing, so a corrupted frame chain only ends the walk.
type SelfMemory struct{}

func (SelfMemory) ReadWord(addr, size uintptr) (v uintptr, ok bool) {
	if addr == 0 || (size != 4 && size != 8) || addr%size != 0 {
		return 0, false
	}

	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if recover() != nil {
			v, ok = 0, false
		}
	}()

	if size == 4 {
		return uintptr(*(*uint32)(unsafe.Pointer(addr))), true
	}
	return uintptr(*(*uint64)(unsafe.Pointer(addr))), true
}
