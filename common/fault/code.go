// Package fault classifies the reason a process is going down.
//
// Codes use the platform exception code space so a report taken on any OS
// carries the same identifiers. Panics and signals are folded into it by
// FromPanic and FromSignal.
package fault

import "fmt"

type Code uint32

const (
	Unknown                 Code = 0
	GuardPage               Code = 0x80000001
	DatatypeMisalignment    Code = 0x80000002
	Breakpoint              Code = 0x80000003
	SingleStep              Code = 0x80000004
	AccessViolation         Code = 0xC0000005
	InPageError             Code = 0xC0000006
	InvalidHandle           Code = 0xC0000008
	IllegalInstruction      Code = 0xC000001D
	NoncontinuableException Code = 0xC0000025
	InvalidDisposition      Code = 0xC0000026
	ArrayBoundsExceeded     Code = 0xC000008C
	FltDenormalOperand      Code = 0xC000008D
	FltDivideByZero         Code = 0xC000008E
	FltInexactResult        Code = 0xC000008F
	FltInvalidOperation     Code = 0xC0000090
	FltOverflow             Code = 0xC0000091
	FltStackCheck           Code = 0xC0000092
	FltUnderflow            Code = 0xC0000093
	IntDivideByZero         Code = 0xC0000094
	IntOverflow             Code = 0xC0000095
	PrivInstruction         Code = 0xC0000096
	StackOverflow           Code = 0xC00000FD
	ControlCExit            Code = 0xC000013A
	CxxException            Code = 0xE06D7363
	GoPanic                 Code = 0xE0474F21
)

const unknownException = "Unknown exception"

// Classify returns the fixed description of code. It never fails: codes
// outside the known set map to "Unknown exception".
func Classify(code Code) string {
	switch code {
	case AccessViolation:
		return "EXCEPTION_ACCESS_VIOLATION"
	case DatatypeMisalignment:
		return "EXCEPTION_DATATYPE_MISALIGNMENT"
	case Breakpoint:
		return "EXCEPTION_BREAKPOINT"
	case SingleStep:
		return "EXCEPTION_SINGLE_STEP"
	case ArrayBoundsExceeded:
		return "EXCEPTION_ARRAY_BOUNDS_EXCEEDED"
	case FltDenormalOperand:
		return "EXCEPTION_FLT_DENORMAL_OPERAND"
	case FltDivideByZero:
		return "EXCEPTION_FLT_DIVIDE_BY_ZERO"
	case FltInexactResult:
		return "EXCEPTION_FLT_INEXACT_RESULT"
	case FltInvalidOperation:
		return "EXCEPTION_FLT_INVALID_OPERATION"
	case FltOverflow:
		return "EXCEPTION_FLT_OVERFLOW"
	case FltStackCheck:
		return "EXCEPTION_FLT_STACK_CHECK"
	case FltUnderflow:
		return "EXCEPTION_FLT_UNDERFLOW"
	case IntDivideByZero:
		return "EXCEPTION_INT_DIVIDE_BY_ZERO"
	case IntOverflow:
		return "EXCEPTION_INT_OVERFLOW"
	case PrivInstruction:
		return "EXCEPTION_PRIV_INSTRUCTION"
	case InPageError:
		return "EXCEPTION_IN_PAGE_ERROR"
	case IllegalInstruction:
		return "EXCEPTION_ILLEGAL_INSTRUCTION"
	case NoncontinuableException:
		return "EXCEPTION_NONCONTINUABLE_EXCEPTION"
	case StackOverflow:
		return "EXCEPTION_STACK_OVERFLOW"
	case InvalidDisposition:
		return "EXCEPTION_INVALID_DISPOSITION"
	case GuardPage:
		return "EXCEPTION_GUARD_PAGE"
	case InvalidHandle:
		return "EXCEPTION_INVALID_HANDLE"
	case ControlCExit:
		return "CONTROL_C_EXIT"
	case CxxException:
		return "C++ exception (using throw)"
	case GoPanic:
		return "Go panic (using panic)"
	default:
		return unknownException
	}
}

func (c Code) String() string {
	return Classify(c)
}

// Known reports whether c is one of the enumerated codes.
func (c Code) Known() bool {
	return Classify(c) != unknownException
}

// Hex formats the raw code value, e.g. 0xC0000005.
func (c Code) Hex() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}
