package symbols

import (
	"debug/dwarf"
	"debug/elf"
	"reflect"
	"runtime"
	"sort"

	"github.com/go-errors/errors"
	log "github.com/sirupsen/logrus"
)

// image is the executable on disk. It is opened on the first lookup that
// needs it and remembers a failed open so it is only tried once.
type image struct {
	path   string
	loaded bool
	file   *elf.File
	funcs  []elf.Symbol
	// bias is the difference between runtime addresses and link addresses.
	bias uintptr
	// base is the runtime address of the first loadable segment, the origin
	// of breakpad module offsets. size spans every loadable segment.
	base uintptr
	size uintptr

	dwarfLoaded bool
	dwarf       *dwarf.Data
}

func (m *image) load() bool {
	if m.loaded {
		return m.file != nil
	}
	m.loaded = true

	if m.path == "" {
		return false
	}

	f, err := elf.Open(m.path)
	if err != nil {
		log.WithError(err).
			WithField("path", m.path).
			Debug("Can't open executable image")
		return false
	}
	m.file = f

	syms, err := f.Symbols()
	if err != nil {
		log.WithError(err).
			WithField("path", m.path).
			Debug("Can't read symbol table")
	}
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) == elf.STT_FUNC && s.Value != 0 {
			m.funcs = append(m.funcs, s)
		}
	}
	sort.Slice(m.funcs, func(i, j int) bool {
		return m.funcs[i].Value < m.funcs[j].Value
	})

	m.bias = m.loadBias()
	first, end, seen := uint64(0), uint64(0), false
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		if !seen {
			first, seen = p.Vaddr, true
		}
		if e := p.Vaddr + p.Memsz; e > end {
			end = e
		}
	}
	if seen {
		m.base = m.bias + uintptr(first)
		m.size = uintptr(end - first)
	}

	return true
}

//go:noinline
func anchor() {}

// loadBias compares where anchor runs with where the symbol table says it
// was linked.
func (m *image) loadBias() uintptr {
	pc := reflect.ValueOf(anchor).Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return 0
	}

	name := fn.Name()
	for _, s := range m.funcs {
		if s.Name == name {
			return pc - uintptr(s.Value)
		}
	}
	return 0
}

func (m *image) funcAt(addr uint64) (elf.Symbol, bool) {
	i := sort.Search(len(m.funcs), func(i int) bool {
		return m.funcs[i].Value > addr
	}) - 1
	if i < 0 {
		return elf.Symbol{}, false
	}

	s := m.funcs[i]
	if s.Size != 0 && addr >= s.Value+s.Size {
		return elf.Symbol{}, false
	}
	return s, true
}

func (m *image) dwarfData() *dwarf.Data {
	if m.dwarfLoaded || m.file == nil {
		return m.dwarf
	}
	m.dwarfLoaded = true

	d, err := m.file.DWARF()
	if err != nil {
		log.WithError(err).
			WithField("path", m.path).
			Debug("No debug information in executable")
		return nil
	}
	m.dwarf = d
	return d
}

func (m *image) close() error {
	if m.file == nil {
		return nil
	}

	err := m.file.Close()
	m.file = nil
	m.funcs = nil
	m.dwarf = nil
	if err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

type elfSource struct {
	img *image
}

func (e *elfSource) function(pc uintptr, sym *Symbol) bool {
	if !e.img.load() {
		return false
	}

	addr := uint64(pc - e.img.bias)
	s, ok := e.img.funcAt(addr)
	if !ok {
		return false
	}

	sym.setName(s.Name)
	sym.Displacement = uintptr(addr - s.Value)
	sym.FuncSource = SourceELF
	return true
}

func (e *elfSource) line(pc uintptr, sym *Symbol) bool {
	if !e.img.load() {
		return false
	}
	d := e.img.dwarfData()
	if d == nil {
		return false
	}

	addr := uint64(pc - e.img.bias)
	cu, err := d.Reader().SeekPC(addr)
	if err != nil {
		return false
	}
	lr, err := d.LineReader(cu)
	if err != nil || lr == nil {
		return false
	}

	var le dwarf.LineEntry
	if err := lr.SeekPC(addr, &le); err != nil || le.File == nil {
		return false
	}

	sym.File = le.File.Name
	sym.Line = le.Line
	sym.LineDisplacement = uintptr(addr - le.Address)
	sym.LineSource = SourceELF
	return true
}
