//go:build unix

package capture

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

var consoleSignals = []os.Signal{os.Interrupt, unix.SIGTERM, unix.SIGHUP}

// Synchronous faults in Go code arrive as panics, these only come from
// outside or from non-Go code.
var fatalSignals = []os.Signal{
	unix.SIGSEGV,
	unix.SIGBUS,
	unix.SIGFPE,
	unix.SIGILL,
	unix.SIGABRT,
	unix.SIGTRAP,
	unix.SIGSYS,
}

func raise(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		s = unix.SIGTERM
	}
	if err := unix.Kill(unix.Getpid(), s); err != nil {
		os.Exit(128 + int(s))
	}
}
