package fault

import (
	"os"
	"runtime"
	"strings"
	"syscall"
)

// FromPanic maps a recovered panic value to a code. Runtime errors raised
// for hardware faults keep their hardware class; everything else is a
// language-level panic.
func FromPanic(v interface{}) Code {
	rerr, ok := v.(runtime.Error)
	if !ok {
		return GoPanic
	}

	// Faults turned into panics by debug.SetPanicOnFault carry the address.
	if _, ok := rerr.(interface{ Addr() uintptr }); ok {
		return AccessViolation
	}

	return fromRuntimeMessage(rerr.Error())
}

func fromRuntimeMessage(msg string) Code {
	switch {
	case strings.Contains(msg, "nil pointer dereference"),
		strings.Contains(msg, "invalid memory address"),
		strings.Contains(msg, "unexpected fault address"):
		return AccessViolation
	case strings.Contains(msg, "integer divide by zero"):
		return IntDivideByZero
	case strings.Contains(msg, "integer overflow"):
		return IntOverflow
	case strings.Contains(msg, "index out of range"),
		strings.Contains(msg, "slice bounds out of range"):
		return ArrayBoundsExceeded
	case strings.Contains(msg, "unaligned"):
		return DatatypeMisalignment
	case strings.Contains(msg, "floating point"):
		return FltInvalidOperation
	case strings.Contains(msg, "stack overflow"):
		return StackOverflow
	default:
		return GoPanic
	}
}

// FromSignal maps a delivered signal to a code. Unmapped signals give
// Unknown.
func FromSignal(sig os.Signal) Code {
	if sig == os.Interrupt {
		return ControlCExit
	}

	s, ok := sig.(syscall.Signal)
	if !ok {
		return Unknown
	}

	switch s {
	case syscall.SIGSEGV:
		return AccessViolation
	case syscall.SIGBUS:
		return DatatypeMisalignment
	case syscall.SIGFPE:
		return FltInvalidOperation
	case syscall.SIGILL:
		return IllegalInstruction
	case syscall.SIGTRAP:
		return Breakpoint
	case syscall.SIGABRT:
		return NoncontinuableException
	case syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP:
		return ControlCExit
	default:
		return Unknown
	}
}
