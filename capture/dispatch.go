package capture

import (
	"os"

	log "github.com/sirupsen/logrus"

	"crashlog/common/fault"
	"crashlog/common/format/report"
	"crashlog/common/pipeline"
	"crashlog/common/stack"
	"crashlog/common/symbols"
)

// Trigger is the kind of event that started a capture.
type Trigger int

const (
	TriggerFault Trigger = iota
	TriggerVector
	TriggerConsole
	TriggerExit
)

func (t Trigger) String() string {
	switch t {
	case TriggerFault:
		return "fault"
	case TriggerVector:
		return "vector"
	case TriggerConsole:
		return "console"
	case TriggerExit:
		return "exit"
	}
	return "unknown"
}

// Disposition tells what happens to the event once the capture is done.
type Disposition int

const (
	// ExecuteHandler lets the default crash run: the panic goes on and
	// terminates the process.
	ExecuteHandler Disposition = iota
	// ContinueSearch passes the event on to outer handlers.
	ContinueSearch
	// NotHandled leaves the event to its default action.
	NotHandled
	// Proceed lets normal termination continue.
	Proceed
)

func (d Disposition) String() string {
	switch d {
	case ExecuteHandler:
		return "execute handler"
	case ContinueSearch:
		return "continue search"
	case NotHandled:
		return "not handled"
	case Proceed:
		return "proceed"
	}
	return "unknown"
}

func (t Trigger) Disposition() Disposition {
	switch t {
	case TriggerFault:
		return ExecuteHandler
	case TriggerVector:
		return ContinueSearch
	case TriggerConsole:
		return NotHandled
	}
	return Proceed
}

func (s *State) subscribed(t Trigger) bool {
	switch t {
	case TriggerFault:
		return s.opts.HandleExceptions
	case TriggerVector:
		return s.opts.HandleVector
	case TriggerConsole:
		return s.opts.HandleConsole
	case TriggerExit:
		return s.opts.HandleExit
	}
	return false
}

// onPanic is called from Fault and Observe with the recovered value. It
// returns whether this call did the capture.
func (s *State) onPanic(t Trigger, v interface{}) bool {
	if !s.subscribed(t) || !s.guard.TryEnter() {
		return false
	}

	// skip onPanic and the deferred binding, the stack starts at the
	// runtime's panic machinery
	s.ctx.Fill(fault.FromPanic(v), v, 2)
	s.run(t, &s.ctx, t.String())
	return true
}

func (s *State) onSignal(t Trigger, sig os.Signal) bool {
	if !s.guard.TryEnter() {
		return false
	}

	detail := t.String() + " (" + sig.String() + ")"
	if t == TriggerVector {
		s.ctx.Reset(fault.FromSignal(sig), nil)
		s.run(t, &s.ctx, detail)
	} else {
		s.run(t, nil, detail)
	}
	return true
}

// run is executed by the guard winner only: cleanup, report, teardown.
func (s *State) run(t Trigger, ctx *stack.Context, detail string) {
	log.WithField("trigger", detail).Info("Capturing crash")

	if s.opts.Cleanup != nil {
		s.opts.Cleanup.Cleanup(s.opts.CleanupParam)
	}

	if ctx != nil {
		s.writeReport(ctx, detail)
	}

	s.teardown()
}

func (s *State) writeReport(ctx *stack.Context, detail string) {
	dir := s.opts.SymbolsDir
	if dir == "" {
		dir = s.exeDir
	}

	res := symbols.Open(s.exePath, dir)
	defer func() {
		if err := res.Close(); err != nil {
			log.WithError(err).Warning("Can't release symbols")
		}
	}()

	r := s.report
	r.Reset()
	r.Trigger = detail
	r.ExePath = s.exePath
	r.Session = s.session
	r.Host = s.host
	r.Collect(ctx, res)
	pipeline.Run(s.stages, r)

	w := report.Writer{Primary: s.CrashFile(), FallbackDir: s.exeDir}
	path, err := w.Write(r)
	if err != nil {
		log.WithError(err).Error("Can't write crash report")
		return
	}

	s.written.Store(path)
	log.WithFields(log.Fields{
		"path":      path,
		"code":      r.Code.Hex(),
		"signature": r.Signature,
		"frames":    len(r.Frames),
	}).Error("Crash report written")
}

func (s *State) teardown() {
	s.guard.Teardown()
	s.stopOnce.Do(func() {
		if s.console != nil {
			s.hooks.stop(s.console)
		}
		if s.fatal != nil {
			s.hooks.stop(s.fatal)
		}
		close(s.done)
	})
}
