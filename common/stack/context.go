package stack

import (
	"runtime"

	"crashlog/common/fault"
)

// MaxDepth bounds the number of program counters a Context records.
const MaxDepth = 128

type Registers struct {
	SP uintptr
	FP uintptr
	PC uintptr
}

// Context is the state of the faulting goroutine at the moment of the
// trigger. Contexts captured from Go code carry program counters; contexts
// built from a raw register dump carry a Memory to unwind through.
type Context struct {
	Code  fault.Code
	Value interface{}
	Regs  Registers
	Arch  Arch
	Mem   Memory

	pcs [MaxDepth]uintptr
	n   int
}

// Capture records the calling goroutine's stack. skip is the number of
// callers to omit above the caller of Capture.
func Capture(code fault.Code, value interface{}, skip int) *Context {
	c := &Context{}
	c.fill(code, value, skip+1)
	return c
}

// Fill overwrites c with the calling goroutine's stack, reusing its storage.
func (c *Context) Fill(code fault.Code, value interface{}, skip int) {
	c.fill(code, value, skip+1)
}

func (c *Context) fill(code fault.Code, value interface{}, skip int) {
	c.Reset(code, value)
	c.n = runtime.Callers(skip+2, c.pcs[:])
	if c.n > 0 {
		c.Regs.PC = c.pcs[0]
	}
}

// Reset clears c to a context with no stack.
func (c *Context) Reset(code fault.Code, value interface{}) {
	*c = Context{
		Code:  code,
		Value: value,
		Arch:  Native(),
	}
}

// NewRawContext builds a context from a raw register dump laid out for
// arch. The walk reads saved frame pointers through mem, the current
// process when mem is nil.
func NewRawContext(code fault.Code, arch Arch, raw []uint64, mem Memory) *Context {
	if mem == nil {
		mem = SelfMemory{}
	}
	return &Context{
		Code: code,
		Regs: arch.Registers(raw),
		Arch: arch,
		Mem:  mem,
	}
}

// PCs returns the captured program counters, innermost first.
func (c *Context) PCs() []uintptr {
	return c.pcs[:c.n]
}
