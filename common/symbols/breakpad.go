package symbols

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
	log "github.com/sirupsen/logrus"

	"crashlog/common/utils"
)

var moduleRx *regexp.Regexp

func init() {
	osCapGroup := "(Linux|mac|Macintosh OSX|windows|Microsoft Windows)"
	archNoCapGroup := "(?:x86|Intel IA-32|x86_64|AMD64/Intel 64|ppc|32-bit PowerPC|ppc64|64-bit PowerPC|arm|arm64|unknown)"
	// MODULE operatingsystem architecture id name
	moduleRx = regexp.MustCompile(fmt.Sprintf("^MODULE %s %s (\\S+) (.*)",
		osCapGroup,
		archNoCapGroup))
}

type bpLine struct {
	addr uint64
	size uint64
	line int
	file int
}

type bpFunc struct {
	addr  uint64
	size  uint64
	name  string
	lines []bpLine
}

type bpPublic struct {
	addr uint64
	name string
	// end is the address of the next symbol, when there is one.
	end     uint64
	bounded bool
}

// Breakpad is a parsed breakpad text symbol file. Addresses are offsets
// from the module's load address.
type Breakpad struct {
	OS   string
	ID   string
	Name string
	// Extent is the module size when known. The last PUBLIC record only
	// resolves offsets below it.
	Extent uint64

	files   map[int]string
	funcs   []bpFunc
	publics []bpPublic
}

func LoadBreakpad(path string) (*Breakpad, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer file.Close()

	b, err := ParseBreakpad(file)
	if err != nil {
		return nil, errors.WrapPrefix(err, path, 0)
	}
	return b, nil
}

func ParseBreakpad(r io.Reader) (*Breakpad, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		return nil, errors.New("Empty symbol file")
	}

	match := moduleRx.FindStringSubmatch(utils.Trim(scanner.Text()))
	if match == nil {
		return nil, errors.New("It isn't file symbols")
	}

	b := &Breakpad{
		OS:    strings.TrimSpace(match[1]),
		ID:    strings.TrimSpace(match[2]),
		Name:  strings.TrimSpace(match[3]),
		files: make(map[int]string),
	}

	var current *bpFunc
	for scanner.Scan() {
		line := utils.Trim(scanner.Text())
		record, rest, _ := strings.Cut(line, " ")

		switch record {
		case "FILE":
			current = nil
			num, name, ok := strings.Cut(rest, " ")
			n, err := strconv.Atoi(num)
			if ok && err == nil {
				b.files[n] = name
			}
		case "FUNC":
			current = nil
			f, ok := parseFunc(rest)
			if ok {
				b.funcs = append(b.funcs, f)
				current = &b.funcs[len(b.funcs)-1]
			}
		case "PUBLIC":
			current = nil
			if p, ok := parsePublic(rest); ok {
				b.publics = append(b.publics, p)
			}
		case "MODULE", "INFO", "STACK", "INLINE", "INLINE_ORIGIN":
			current = nil
		default:
			if current == nil {
				continue
			}
			if l, ok := parseLine(line); ok {
				current.lines = append(current.lines, l)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}

	sort.Slice(b.funcs, func(i, j int) bool {
		return b.funcs[i].addr < b.funcs[j].addr
	})
	for i := range b.funcs {
		lines := b.funcs[i].lines
		sort.Slice(lines, func(x, y int) bool {
			return lines[x].addr < lines[y].addr
		})
	}
	sort.Slice(b.publics, func(i, j int) bool {
		return b.publics[i].addr < b.publics[j].addr
	})
	b.boundPublics()

	return b, nil
}

// boundPublics ends every PUBLIC record at the next FUNC or PUBLIC address.
func (b *Breakpad) boundPublics() {
	for i := range b.publics {
		p := &b.publics[i]
		if i+1 < len(b.publics) {
			p.end, p.bounded = b.publics[i+1].addr, true
		}

		j := sort.Search(len(b.funcs), func(j int) bool {
			return b.funcs[j].addr > p.addr
		})
		if j < len(b.funcs) && (!p.bounded || b.funcs[j].addr < p.end) {
			p.end, p.bounded = b.funcs[j].addr, true
		}
	}
}

// FUNC [m] address size parameter_size name
func parseFunc(rest string) (bpFunc, bool) {
	rest = strings.TrimPrefix(rest, "m ")
	fields := strings.SplitN(rest, " ", 4)
	if len(fields) != 4 {
		return bpFunc{}, false
	}

	addr, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return bpFunc{}, false
	}
	size, err := strconv.ParseUint(fields[1], 16, 64)
	if err != nil {
		return bpFunc{}, false
	}

	return bpFunc{addr: addr, size: size, name: fields[3]}, true
}

// PUBLIC [m] address parameter_size name
func parsePublic(rest string) (bpPublic, bool) {
	rest = strings.TrimPrefix(rest, "m ")
	fields := strings.SplitN(rest, " ", 3)
	if len(fields) != 3 {
		return bpPublic{}, false
	}

	addr, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return bpPublic{}, false
	}
	return bpPublic{addr: addr, name: fields[2]}, true
}

// address size line filenum
func parseLine(line string) (bpLine, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return bpLine{}, false
	}

	addr, err1 := strconv.ParseUint(fields[0], 16, 64)
	size, err2 := strconv.ParseUint(fields[1], 16, 64)
	num, err3 := strconv.Atoi(fields[2])
	file, err4 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return bpLine{}, false
	}
	return bpLine{addr: addr, size: size, line: num, file: file}, true
}

func (b *Breakpad) funcAt(offset uint64) *bpFunc {
	i := sort.Search(len(b.funcs), func(i int) bool {
		return b.funcs[i].addr > offset
	}) - 1
	if i < 0 {
		return nil
	}

	f := &b.funcs[i]
	if offset >= f.addr+f.size {
		return nil
	}
	return f
}

// Function resolves the function containing offset, falling back to the
// nearest preceding PUBLIC record when offset lies before the next symbol
// and inside the module.
func (b *Breakpad) Function(offset uint64, sym *Symbol) bool {
	if f := b.funcAt(offset); f != nil {
		sym.setName(f.name)
		sym.Displacement = uintptr(offset - f.addr)
		sym.FuncSource = SourceBreakpad
		return true
	}

	i := sort.Search(len(b.publics), func(i int) bool {
		return b.publics[i].addr > offset
	}) - 1
	if i < 0 {
		return false
	}

	p := b.publics[i]
	if b.Extent != 0 && offset >= b.Extent {
		return false
	}
	if p.bounded && offset >= p.end {
		return false
	}
	if !p.bounded && b.Extent == 0 {
		return false
	}

	sym.setName(p.name)
	sym.Displacement = uintptr(offset - p.addr)
	sym.FuncSource = SourceBreakpad
	return true
}

func (b *Breakpad) Line(offset uint64, sym *Symbol) bool {
	f := b.funcAt(offset)
	if f == nil {
		return false
	}

	i := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i].addr > offset
	}) - 1
	if i < 0 {
		return false
	}

	l := f.lines[i]
	if offset >= l.addr+l.size {
		return false
	}

	sym.File = b.files[l.file]
	sym.Line = l.line
	sym.LineDisplacement = uintptr(offset - l.addr)
	sym.LineSource = SourceBreakpad
	return true
}

type breakpadSource struct {
	path   string
	img    *image
	loaded bool
	table  *Breakpad
}

func (s *breakpadSource) load() bool {
	if s.loaded {
		return s.table != nil
	}
	s.loaded = true

	t, err := LoadBreakpad(s.path)
	if err != nil {
		log.WithError(err).
			WithField("path", s.path).
			Debug("Can't load breakpad symbols")
		return false
	}
	s.table = t

	if s.img.load() && t.Extent == 0 {
		t.Extent = uint64(s.img.size)
	}
	return true
}

// offset fails for addresses outside the module.
func (s *breakpadSource) offset(pc uintptr) (uint64, bool) {
	s.img.load()
	if pc < s.img.base {
		return 0, false
	}

	off := uint64(pc - s.img.base)
	if s.img.size != 0 && off >= uint64(s.img.size) {
		return 0, false
	}
	return off, true
}

func (s *breakpadSource) function(pc uintptr, sym *Symbol) bool {
	if !s.load() {
		return false
	}
	off, ok := s.offset(pc)
	return ok && s.table.Function(off, sym)
}

func (s *breakpadSource) line(pc uintptr, sym *Symbol) bool {
	if !s.load() {
		return false
	}
	off, ok := s.offset(pc)
	return ok && s.table.Line(off, sym)
}
