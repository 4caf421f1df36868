package stack

import (
	"runtime"
	"unsafe"
)

// Arch describes the register file of a machine: its pointer width and
// where SP, FP and PC live in a raw register dump.
type Arch struct {
	Name    string
	PtrSize uintptr

	layout     bool
	sp, fp, pc int
}

var (
	// AMD64 uses the Linux user_regs_struct order: rbp, rip and rsp.
	AMD64 = Arch{Name: "amd64", PtrSize: 8, layout: true, sp: 19, fp: 4, pc: 16}
	// I386 uses the Linux user_regs_struct order: ebp, eip and esp.
	I386 = Arch{Name: "386", PtrSize: 4, layout: true, sp: 15, fp: 5, pc: 12}
)

// Native returns the architecture of the running process.
func Native() Arch {
	switch runtime.GOARCH {
	case "amd64":
		return AMD64
	case "386":
		return I386
	default:
		return Arch{Name: runtime.GOARCH, PtrSize: unsafe.Sizeof(uintptr(0))}
	}
}

// Registers picks the stack, frame and program counter values out of raw.
// Slots missing from raw are left zero.
func (a Arch) Registers(raw []uint64) Registers {
	if !a.layout {
		return Registers{}
	}
	return Registers{
		SP: a.slot(raw, a.sp),
		FP: a.slot(raw, a.fp),
		PC: a.slot(raw, a.pc),
	}
}

func (a Arch) slot(raw []uint64, i int) uintptr {
	if i >= len(raw) {
		return 0
	}
	v := raw[i]
	if a.PtrSize == 4 {
		v &= 0xFFFFFFFF
	}
	return uintptr(v)
}

// Digits is the number of hex digits needed to print one pointer.
func (a Arch) Digits() int {
	if a.PtrSize == 0 {
		return 2 * int(unsafe.Sizeof(uintptr(0)))
	}
	return 2 * int(a.PtrSize)
}
