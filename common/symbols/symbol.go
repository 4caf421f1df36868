// Package symbols maps program counters to function names and source lines.
package symbols

// MaxNameLen is the capacity of a resolved function name. Longer names are
// truncated.
const MaxNameLen = 1024

// Source tells which table resolved a lookup.
type Source uint8

const (
	SourceNone Source = iota
	SourceRuntime
	SourceELF
	SourceBreakpad
)

func (s Source) String() string {
	switch s {
	case SourceRuntime:
		return "runtime"
	case SourceELF:
		return "elf"
	case SourceBreakpad:
		return "breakpad"
	default:
		return "none"
	}
}

// Symbol is the debug information found for one program counter. The
// function half and the line half are resolved independently; either may
// be missing. The name lives in a fixed buffer so a Symbol can be reused
// for every frame of a report.
type Symbol struct {
	PC uintptr

	name         [MaxNameLen]byte
	nameLen      int
	Displacement uintptr
	FuncSource   Source

	File             string
	Line             int
	LineDisplacement uintptr
	LineSource       Source
}

func (s *Symbol) Reset(pc uintptr) {
	s.PC = pc
	s.nameLen = 0
	s.Displacement = 0
	s.FuncSource = SourceNone
	s.File = ""
	s.Line = 0
	s.LineDisplacement = 0
	s.LineSource = SourceNone
}

func (s *Symbol) setName(name string) {
	s.nameLen = copy(s.name[:], name)
}

// Name is a view of the resolved function name. It is only valid until the
// next Reset.
func (s *Symbol) Name() []byte {
	return s.name[:s.nameLen]
}

func (s *Symbol) NameString() string {
	return string(s.name[:s.nameLen])
}

func (s *Symbol) HasFunction() bool {
	return s.FuncSource != SourceNone
}

func (s *Symbol) HasLine() bool {
	return s.LineSource != SourceNone
}

func (s *Symbol) Resolved() bool {
	return s.HasFunction() || s.HasLine()
}
