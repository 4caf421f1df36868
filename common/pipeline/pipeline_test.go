package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crashlog/common/format/report"
	"crashlog/common/stack"
	"crashlog/common/symbols"
)

// frames builds a report whose frames resolve through a breakpad table,
// one function per 0x100 bytes.
func frames(t *testing.T, names ...string) *report.Report {
	text := "MODULE Linux x86_64 ABCDEF app\nFILE 0 app.go\n"
	for i, n := range names {
		text += "FUNC " + hex(i*0x100) + " 100 0 " + n + "\n"
		text += hex(i*0x100) + " 100 " + itoa(10+i) + " 0\n"
	}
	b, err := symbols.ParseBreakpad(stringsReader(text))
	assert.NoError(t, err)

	r := report.New()
	for i := range names {
		pc := uintptr(i*0x100 + 4)
		e := r.Add(stack.Frame{Frame: 1, PC: pc})
		b.Function(uint64(pc), &e.Symbol)
		b.Line(uint64(pc), &e.Symbol)
	}
	// an unresolved frame is skipped by every stage
	r.Add(stack.Frame{Frame: 1, PC: 0xFFFFFF})
	return r
}

func TestSignatureAndSource(t *testing.T) {
	r := frames(t, "runtime.gopanic", "main.crash")

	stop := (&SignatureAndSource{}).Process(r)
	assert.False(t, stop)
	assert.Equal(t, "runtime.gopanic", r.Signature)
	assert.Equal(t, "app.go:10", r.Source)
}

func TestRxSkipsIgnoredFrames(t *testing.T) {
	r := frames(t, "runtime.gopanic", "crashlog/capture.(*State).Fault", "main.crash", "main.main")

	Run([]Stage{&SignatureAndSource{}, NewRx(DefaultIgnore)}, r)
	assert.Equal(t, "main.crash", r.Signature)
	assert.Equal(t, "app.go:12", r.Source)
}

func TestRxAllIgnored(t *testing.T) {
	r := frames(t, "runtime.gopanic", "runtime.main")

	assert.True(t, NewRx(DefaultIgnore).Process(r))
	assert.Equal(t, "runtime.gopanic", r.Signature)
}

func TestRxWithoutRegexps(t *testing.T) {
	r := frames(t, "main.crash")

	rx := NewRx([]string{"(unclosed"})
	assert.Empty(t, rx.Regexps)
	assert.False(t, rx.Process(r))
	assert.Empty(t, r.Signature)
}
