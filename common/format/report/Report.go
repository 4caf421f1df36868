// Package report holds the crash report and writes it out as text.
package report

import (
	"fmt"

	"crashlog/common/fault"
	"crashlog/common/stack"
	"crashlog/common/symbols"
	"crashlog/common/utils"
)

// MaxFrames is the number of frames a report keeps.
const MaxFrames = 128

const maxPanicLen = 512

type Entry struct {
	stack.Frame
	Symbol symbols.Symbol
}

// Report is allocated once, before anything goes wrong, and filled in by
// the capture that wins. Frames is a view of the preallocated entries.
type Report struct {
	Code           fault.Code
	Classification string
	Trigger        string
	ExePath        string
	Session        string
	Host           string
	Panic          string
	Signature      string
	Source         string
	Arch           stack.Arch
	Frames         []Entry
	Truncated      bool

	entries [MaxFrames]Entry
}

func New() *Report {
	r := &Report{}
	r.Reset()
	return r
}

func (r *Report) Reset() {
	r.Code = fault.Unknown
	r.Classification = fault.Classify(fault.Unknown)
	r.Trigger = ""
	r.ExePath = ""
	r.Session = ""
	r.Host = ""
	r.Panic = ""
	r.Signature = ""
	r.Source = ""
	r.Arch = stack.Native()
	r.Frames = r.entries[:0]
	r.Truncated = false
}

// Add appends a frame and returns its entry, or nil once the report is
// full.
func (r *Report) Add(f stack.Frame) *Entry {
	if len(r.Frames) == MaxFrames {
		r.Truncated = true
		return nil
	}

	r.Frames = r.Frames[:len(r.Frames)+1]
	e := &r.Frames[len(r.Frames)-1]
	e.Frame = f
	e.Symbol.Reset(f.PC)
	return e
}

// Collect classifies c, walks its stack and resolves every frame. Frames
// that can't be resolved are kept with their raw values.
func (r *Report) Collect(c *stack.Context, res *symbols.Resolver) {
	r.Code = c.Code
	r.Classification = fault.Classify(c.Code)
	r.Arch = c.Arch
	if c.Value != nil {
		r.Panic = describe(c.Value)
	}

	w := stack.NewWalker(c)
	for {
		f, ok := w.Next()
		if !ok {
			return
		}

		e := r.Add(f)
		if e == nil {
			return
		}
		res.Resolve(f.PC, &e.Symbol)
	}
}

func describe(v interface{}) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("<unprintable %T>", v)
		}
	}()
	return utils.OneLine(fmt.Sprint(v), maxPanicLen)
}
