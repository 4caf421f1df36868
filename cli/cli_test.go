package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlog/common/fault"
	"crashlog/common/symbols"
)

func TestParseCode(t *testing.T) {
	code, err := parseCode("0xC0000005")
	require.NoError(t, err)
	assert.Equal(t, fault.AccessViolation, code)

	code, err = parseCode("3221225620")
	require.NoError(t, err)
	assert.Equal(t, fault.IntDivideByZero, code)

	_, err = parseCode("0xZZ")
	assert.Error(t, err)

	_, err = parseCode("0x1FFFFFFFF")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, classify(&out, []string{"0xC0000005", "0x1"}))

	assert.Equal(t, "0xC0000005 EXCEPTION_ACCESS_VIOLATION\n0x00000001 Unknown exception\n", out.String())
	assert.Error(t, classify(&out, nil))
}

func TestLookup(t *testing.T) {
	b, err := symbols.ParseBreakpad(strings.NewReader(
		"MODULE Linux x86_64 0123456789ABCDEF0123456789ABCDEF0 crashy\n" +
			"FILE 0 /src/crashy/main.go\n" +
			"FUNC 1000 40 0 main.main\n" +
			"1000 40 12 0\n" +
			"PUBLIC 3000 0 runtime.goexit\n"))
	require.NoError(t, err)
	b.Extent = 0x4000

	var out bytes.Buffer
	require.NoError(t, lookup(&out, b, []string{"0x1010", "3004", "10", "4000"}))

	assert.Equal(t,
		"0x1010 main.main+0x10 /src/crashy/main.go:12\n"+
			"3004 runtime.goexit+0x4\n"+
			"10 ??\n"+
			"4000 ??\n",
		out.String())

	assert.Error(t, lookup(&out, b, []string{"nope"}))
}

func TestTriggersRegistered(t *testing.T) {
	for _, name := range []string{"nil", "div", "index", "panic", "interrupt", "exit"} {
		assert.Contains(t, triggers, name)
	}
}
