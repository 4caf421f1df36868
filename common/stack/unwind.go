package stack

import "runtime"

// runtimeUnwinder walks program counters recorded by runtime.Callers,
// expanding inlined calls.
type runtimeUnwinder struct {
	frames *runtime.Frames
	cur    runtime.Frame
	valid  bool
	more   bool
	primed bool
}

func newRuntimeUnwinder(pcs []uintptr) *runtimeUnwinder {
	u := &runtimeUnwinder{}
	if len(pcs) > 0 {
		u.frames = runtime.CallersFrames(pcs)
	}
	return u
}

func (u *runtimeUnwinder) Next(f *Frame) bool {
	if u.frames == nil {
		return false
	}
	if !u.primed {
		u.primed = true
		u.cur, u.more = u.frames.Next()
		u.valid = u.cur.PC != 0
	}
	if !u.valid {
		return false
	}

	cur := u.cur
	if u.more {
		u.cur, u.more = u.frames.Next()
	} else {
		u.cur, u.valid = runtime.Frame{}, false
	}

	f.Stack = 0
	f.Frame = cur.Entry
	f.PC = cur.PC
	f.Return = u.cur.PC
	return true
}

// framePointerUnwinder follows the saved frame pointer chain: the word at
// FP is the caller's FP, the next word is the return address. Stacks grow
// down, so every older frame must sit at a higher address; anything else is
// a corrupted or cyclic chain and ends the walk.
type framePointerUnwinder struct {
	mem     Memory
	arch    Arch
	started bool
}

func (u *framePointerUnwinder) Next(f *Frame) bool {
	ptr := u.arch.PtrSize
	if ptr == 0 {
		return false
	}

	if !u.started {
		u.started = true
		if f.PC == 0 || f.Frame == 0 {
			return false
		}
		f.Return = u.returnAddress(f.Frame)
		return true
	}

	if f.Frame == 0 || f.Return == 0 {
		return false
	}

	caller, ok := u.mem.ReadWord(f.Frame, ptr)
	if !ok {
		return false
	}
	if caller != 0 && caller <= f.Frame {
		return false
	}

	f.Stack = f.Frame + 2*ptr
	f.PC = f.Return
	f.Frame = caller
	f.Return = 0
	if caller != 0 {
		f.Return = u.returnAddress(caller)
	}
	return true
}

func (u *framePointerUnwinder) returnAddress(fp uintptr) uintptr {
	ret, ok := u.mem.ReadWord(fp+u.arch.PtrSize, u.arch.PtrSize)
	if !ok {
		return 0
	}
	return ret
}
