// Package capture records one crash report per process.
//
// Initialise subscribes the selected triggers. Whichever trigger fires first
// runs the user's cleanup callback and, when it has a fault context, writes
// the report; every later trigger is ignored. The exit trigger is an
// atexit handler: it runs from Exit or from atexit.Exit, not when main
// simply returns.
//
//	func main() {
//		crash := capture.Initialise(capture.Options{
//			HandleExceptions: true,
//			HandleExit:       true,
//			HandleConsole:    true,
//			Cleanup:          capture.CleanerFunc(flush),
//		})
//		defer crash.Fault()
//		...
//		crash.Exit(0)
//	}
package capture

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"

	"crashlog/common/format"
	"crashlog/common/format/report"
	"crashlog/common/guard"
	"crashlog/common/pipeline"
	"crashlog/common/stack"
	"crashlog/common/utils"
)

const DefaultFile = "Crash.log"

// Cleaner releases the caller's resources before the report is written.
// It runs at most once, on the goroutine that won the capture, and must not
// panic.
type Cleaner interface {
	Cleanup(param interface{})
}

type CleanerFunc func(param interface{})

func (f CleanerFunc) Cleanup(param interface{}) {
	f(param)
}

type Options struct {
	// File is the report path, DefaultFile when empty. Relative paths are
	// taken from the working directory; the executable's directory is the
	// fallback.
	File string

	HandleExceptions bool
	HandleExit       bool
	HandleVector     bool
	HandleConsole    bool

	Cleanup      Cleaner
	CleanupParam interface{}

	// SymbolsDir holds the breakpad symbol file. Defaults to the
	// executable's directory.
	SymbolsDir string
	// IgnoreFrames are extra function name patterns that never name a
	// crash.
	IgnoreFrames []string
}

type hooks struct {
	notify   func(c chan<- os.Signal, sig ...os.Signal)
	stop     func(c chan<- os.Signal)
	ignored  func(sig os.Signal) bool
	register func(fn func())
	raise    func(sig os.Signal)
	exit     func(code int)
}

var osHooks = hooks{
	notify:  signal.Notify,
	stop:    signal.Stop,
	ignored: signal.Ignored,
	register: func(fn func()) {
		atexit.Register(fn)
	},
	raise: raise,
	exit:  atexit.Exit,
}

// State is the capture configuration shared by every trigger. Apart from
// the crash file path it is read-only after Initialise.
type State struct {
	guard *guard.Guard
	opts  Options
	file  atomic.Value

	exePath string
	exeDir  string
	session string
	host    string

	// report and ctx are reserved up front and only touched by the winner.
	report  *report.Report
	ctx     stack.Context
	stages  []pipeline.Stage
	written atomic.Value

	hooks    hooks
	console  chan os.Signal
	fatal    chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
}

// Initialise must be called once, before anything can go wrong.
func Initialise(opts Options) *State {
	return initialise(opts, osHooks)
}

func initialise(opts Options, h hooks) *State {
	if opts.File == "" {
		opts.File = DefaultFile
	}

	exe, dir := utils.Executable()
	s := &State{
		guard:   guard.New(),
		opts:    opts,
		exePath: exe,
		exeDir:  dir,
		session: uuid.NewV4().String(),
		host:    format.CollectInfo().String(),
		report:  report.New(),
		hooks:   h,
		done:    make(chan struct{}),
	}
	s.SetCrashFile(opts.File)
	s.written.Store("")

	ignore := append([]string{}, pipeline.DefaultIgnore...)
	ignore = append(ignore, opts.IgnoreFrames...)
	s.stages = []pipeline.Stage{
		&pipeline.SignatureAndSource{},
		pipeline.NewRx(ignore),
	}

	if opts.HandleConsole {
		if sigs := watched(h, consoleSignals); len(sigs) > 0 {
			s.console = make(chan os.Signal, 1)
			h.notify(s.console, sigs...)
			go s.watchConsole()
		}
	}

	if opts.HandleVector {
		if sigs := watched(h, fatalSignals); len(sigs) > 0 {
			s.fatal = make(chan os.Signal, 1)
			h.notify(s.fatal, sigs...)
			go s.watchFatal()
		}
	}

	if opts.HandleExit {
		h.register(s.AtExit)
	}

	log.WithFields(log.Fields{
		"file":       opts.File,
		"exceptions": opts.HandleExceptions,
		"exit":       opts.HandleExit,
		"vector":     opts.HandleVector,
		"console":    opts.HandleConsole,
		"session":    s.session,
	}).Debug("Crash capture initialised")

	return s
}

// watched drops the signals the process was started with ignored, as under
// nohup or in a background job.
func watched(h hooks, sigs []os.Signal) []os.Signal {
	var out []os.Signal
	for _, sig := range sigs {
		if h.ignored(sig) {
			log.WithField("signal", sig.String()).Debug("Signal is ignored, not watched")
			continue
		}
		out = append(out, sig)
	}
	return out
}

// SetCrashFile changes the path used by the next capture.
func (s *State) SetCrashFile(name string) {
	s.file.Store(name)
}

func (s *State) CrashFile() string {
	return s.file.Load().(string)
}

// ReportPath is where the report was written, empty until then.
func (s *State) ReportPath() string {
	return s.written.Load().(string)
}

// Captured reports whether a trigger has already won.
func (s *State) Captured() bool {
	return s.guard.Fired()
}

func (s *State) Session() string {
	return s.session
}
