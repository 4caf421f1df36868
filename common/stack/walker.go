// Package stack walks the call stack of a captured fault context.
package stack

// MaxFrames bounds a single walk, whatever the unwinder reports.
const MaxFrames = 256

// Frame is one level of the call stack. For frames produced from Go
// program counters, Frame holds the function entry and Stack is zero: the
// runtime does not expose per-frame stack pointers.
type Frame struct {
	Stack  uintptr
	Frame  uintptr
	PC     uintptr
	Return uintptr
}

// Unwinder advances a frame to the next older one. It returns false when
// it cannot proceed.
type Unwinder interface {
	Next(f *Frame) bool
}

// Walker yields the frames of a context, innermost first. A walker is
// consumed once: after Next returns false it keeps returning false.
type Walker struct {
	u     Unwinder
	frame Frame
	depth int
	done  bool
}

func NewWalker(c *Context) *Walker {
	if c == nil {
		return &Walker{done: true}
	}

	w := &Walker{
		frame: Frame{
			Stack: c.Regs.SP,
			Frame: c.Regs.FP,
			PC:    c.Regs.PC,
		},
	}
	if c.Mem != nil {
		w.u = &framePointerUnwinder{mem: c.Mem, arch: c.Arch}
	} else {
		w.u = newRuntimeUnwinder(c.PCs())
	}
	return w
}

func NewWalkerWith(start Frame, u Unwinder) *Walker {
	return &Walker{frame: start, u: u}
}

// Next returns the next older frame. The walk ends at a zero frame value
// (bottom of the stack), when the unwinder gives up, or after MaxFrames.
func (w *Walker) Next() (Frame, bool) {
	if w.done {
		return Frame{}, false
	}

	if w.depth >= MaxFrames || !w.u.Next(&w.frame) || w.frame.Frame == 0 {
		w.done = true
		return Frame{}, false
	}

	w.depth++
	return w.frame, true
}

// Depth is the number of frames yielded so far.
func (w *Walker) Depth() int {
	return w.depth
}
