package pipeline

import (
	"regexp"

	log "github.com/sirupsen/logrus"

	"crashlog/common/format/report"
)

// Frames of the runtime and of the capture machinery itself never name a
// crash.
var DefaultIgnore = []string{
	`^runtime\.`,
	`^crashlog/capture\.\(\*State\)\.`,
	`^crashlog/common/`,
}

// Regular Expression Descent
type Rx struct {
	Regexps []*regexp.Regexp
}

func (r *Rx) Process(rep *report.Report) bool {
	if len(r.Regexps) == 0 {
		// to next stage
		return false
	}

	var first *report.Entry
	for i := range rep.Frames {
		e := &rep.Frames[i]
		if !e.Symbol.HasFunction() {
			continue
		}
		if first == nil {
			first = e
		}

		name := e.Symbol.Name()
		isMatch := false
		for _, rx := range r.Regexps {
			if rx.Match(name) {
				isMatch = true
				break
			}
		}
		if !isMatch {
			rep.Signature = e.Symbol.NameString()
			rep.Source = source(e)
			return true
		}
	}

	if first == nil {
		// go to next stage
		return false
	}

	rep.Signature = first.Symbol.NameString()
	rep.Source = source(first)
	return true
}

func NewRx(regs []string) *Rx {
	var rxSlice []*regexp.Regexp
	for _, reg := range regs {
		rx, err := regexp.Compile(reg)
		log.WithField("regexp", reg).
			Debug("Rx stage: compile regexp")
		if err == nil {
			rxSlice = append(rxSlice, rx)
		} else {
			log.WithError(err).
				Error("Can't compile regular expression")
		}
	}

	return &Rx{
		Regexps: rxSlice,
	}
}
