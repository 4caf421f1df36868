// Package pipeline contains the stages that name a crash after its frames
package pipeline

import (
	"fmt"

	"crashlog/common/format/report"
)

// Pipeline stage
type Stage interface {
	//Process the report
	//If return true then pipeline stop
	Process(r *report.Report) bool
}

// Run passes r through stages in order until one of them stops it.
func Run(stages []Stage, r *report.Report) {
	for _, s := range stages {
		if s.Process(r) {
			return
		}
	}
}

type SignatureAndSource struct{}

func (m *SignatureAndSource) Process(r *report.Report) bool {
	for i := range r.Frames {
		e := &r.Frames[i]
		if !e.Symbol.HasFunction() {
			continue
		}

		r.Signature = e.Symbol.NameString()
		r.Source = source(e)
		break
	}

	return false
}

func source(e *report.Entry) string {
	if !e.Symbol.HasLine() {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.Symbol.File, e.Symbol.Line)
}
