package capture

import (
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Fault is the unhandled fault binding. Defer it at the top of main and of
// every goroutine that should be covered:
//
//	defer crash.Fault()
//
// The panic goes on after the capture and the process crashes as usual.
func (s *State) Fault() {
	if v := recover(); v != nil {
		s.onPanic(TriggerFault, v)
		s.dispose(TriggerFault.Disposition(), v, nil)
	}
}

// Observe is the early chance binding. It records the panic before any
// outer recover gets to see it and then passes it on.
func (s *State) Observe() {
	if v := recover(); v != nil {
		s.onPanic(TriggerVector, v)
		s.dispose(TriggerVector.Disposition(), v, nil)
	}
}

// Go runs fn on a new goroutine covered by Fault. Invalid memory accesses
// inside fn panic with the faulting address instead of killing the process
// outright.
func (s *State) Go(fn func()) {
	go func() {
		defer s.Fault()
		debug.SetPanicOnFault(true)
		fn()
	}()
}

// AtExit is the normal termination handler, registered with atexit when
// HandleExit is set. Only the cleanup callback is invoked.
func (s *State) AtExit() {
	if !s.subscribed(TriggerExit) || !s.guard.TryEnter() {
		return
	}
	s.run(TriggerExit, nil, TriggerExit.String())
}

// Exit replaces os.Exit: the exit handlers run, then the process exits.
func (s *State) Exit(code int) {
	s.hooks.exit(code)
}

func (s *State) watchConsole() {
	select {
	case <-s.done:
	case sig := <-s.console:
		log.WithField("signal", sig.String()).Info("Console signal")
		s.onSignal(TriggerConsole, sig)
		s.hooks.stop(s.console)
		s.dispose(TriggerConsole.Disposition(), nil, sig)
	}
}

func (s *State) watchFatal() {
	select {
	case <-s.done:
	case sig := <-s.fatal:
		log.WithField("signal", sig.String()).Warning("Fatal signal")
		s.onSignal(TriggerVector, sig)
		s.hooks.stop(s.fatal)
		s.dispose(TriggerVector.Disposition(), nil, sig)
	}
}

// dispose hands the event on once the capture is done. Panics go on
// unwinding; signals are raised again with our subscription gone, so other
// subscribers get them and otherwise the runtime's default action applies.
func (s *State) dispose(d Disposition, v interface{}, sig os.Signal) {
	switch d {
	case ExecuteHandler, ContinueSearch:
		if sig != nil {
			s.hooks.raise(sig)
			return
		}
		panic(v)
	case NotHandled:
		if sig != nil {
			s.hooks.raise(sig)
		}
	}
}
