package symbols

import (
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/multierr"
)

type source interface {
	function(pc uintptr, sym *Symbol) bool
	line(pc uintptr, sym *Symbol) bool
}

// Resolver looks program counters up in the Go runtime tables first, then
// in the executable's ELF symbol table and DWARF line table, then in a
// breakpad symbol file next to the executable. The last two are loaded on
// the first lookup that needs them.
//
// A Resolver serves one report and must be closed when the report is done.
type Resolver struct {
	img      *image
	breakpad *breakpadSource
	sources  []source
	closed   bool
}

// Open prepares a resolver for the executable at exe. dir is searched for
// the breakpad symbol file; the executable's directory is used when dir is
// empty.
func Open(exe, dir string) *Resolver {
	if dir == "" && exe != "" {
		dir = filepath.Dir(exe)
	}

	img := &image{path: exe}
	bp := &breakpadSource{
		path: filepath.Join(dir, BreakpadFileName(exe)),
		img:  img,
	}

	return &Resolver{
		img:      img,
		breakpad: bp,
		sources: []source{
			runtimeSource{},
			&elfSource{img: img},
			bp,
		},
	}
}

// BreakpadFileName is the symbol file name expected for exe: its base name
// without extension, plus ".sym".
func BreakpadFileName(exe string) string {
	base := filepath.Base(exe)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".sym"
}

// Resolve fills sym for pc and reports whether anything was found. A miss
// is not an error: the unresolved fields stay empty.
func (r *Resolver) Resolve(pc uintptr, sym *Symbol) bool {
	sym.Reset(pc)
	if r == nil || r.closed || pc == 0 {
		return false
	}

	for _, s := range r.sources {
		if s.function(pc, sym) {
			break
		}
	}
	for _, s := range r.sources {
		if s.line(pc, sym) {
			break
		}
	}

	return sym.Resolved()
}

// Close releases every table the resolver loaded. It is safe to call more
// than once.
func (r *Resolver) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true

	var err error
	err = multierr.Append(err, r.img.close())
	r.breakpad.table = nil
	return err
}

type runtimeSource struct{}

func (runtimeSource) function(pc uintptr, sym *Symbol) bool {
	fn := runtime.FuncForPC(pc)
	if fn == nil || fn.Name() == "" {
		return false
	}

	sym.setName(fn.Name())
	sym.Displacement = pc - fn.Entry()
	sym.FuncSource = SourceRuntime
	return true
}

func (runtimeSource) line(pc uintptr, sym *Symbol) bool {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return false
	}

	file, line := fn.FileLine(pc)
	if file == "" || file == "?" || line == 0 {
		return false
	}

	sym.File = file
	sym.Line = line
	sym.LineSource = SourceRuntime
	return true
}
