package fault

import (
	"errors"
	"math/rand"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	sink  int
	zero  int
	index = 7
)

func recoverValue(f func()) (v interface{}) {
	defer func() {
		v = recover()
	}()
	f()
	return nil
}

func TestClassifyKnownCodes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("EXCEPTION_ACCESS_VIOLATION", Classify(AccessViolation))
	assert.Equal("EXCEPTION_INT_DIVIDE_BY_ZERO", Classify(IntDivideByZero))
	assert.Equal("EXCEPTION_STACK_OVERFLOW", Classify(StackOverflow))
	assert.Equal("CONTROL_C_EXIT", Classify(ControlCExit))
	assert.Equal("C++ exception (using throw)", Classify(CxxException))
	assert.Equal("Go panic (using panic)", GoPanic.String())
	assert.Equal("0xC0000005", AccessViolation.Hex())
}

func TestClassifyIsTotal(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Unknown exception", Classify(Unknown))
	assert.Equal("Unknown exception", Classify(Code(0xFFFFFFFF)))
	assert.False(Code(0x12345678).Known())

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		c := Code(rnd.Uint32())
		assert.NotEmpty(Classify(c))
	}
}

func TestFromPanicRuntimeFaults(t *testing.T) {
	assert := assert.New(t)

	nilDeref := recoverValue(func() {
		var p *struct{ x int }
		sink = p.x
	})
	assert.Equal(AccessViolation, FromPanic(nilDeref))

	divide := recoverValue(func() {
		sink = 1 / zero
	})
	assert.Equal(IntDivideByZero, FromPanic(divide))

	bounds := recoverValue(func() {
		s := []int{1, 2}
		sink = s[index]
	})
	assert.Equal(ArrayBoundsExceeded, FromPanic(bounds))
}

func TestFromPanicLanguageLevel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(GoPanic, FromPanic("boom"))
	assert.Equal(GoPanic, FromPanic(errors.New("boom")))
	assert.Equal(GoPanic, FromPanic(42))

	nilMap := recoverValue(func() {
		var m map[string]int
		m["x"] = 1
	})
	assert.Equal(GoPanic, FromPanic(nilMap))
}

func TestFromSignal(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(ControlCExit, FromSignal(os.Interrupt))
	assert.Equal(ControlCExit, FromSignal(syscall.SIGTERM))
	assert.Equal(AccessViolation, FromSignal(syscall.SIGSEGV))
	assert.Equal(IllegalInstruction, FromSignal(syscall.SIGILL))
	assert.Equal(DatatypeMisalignment, FromSignal(syscall.SIGBUS))
	assert.Equal(Unknown, FromSignal(syscall.Signal(0)))
}
