package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const separator = "-----------------------------------------\n"

// Writer stores reports at Primary, or under FallbackDir with the same base
// name when Primary can't be created.
type Writer struct {
	Primary     string
	FallbackDir string
}

// Write creates or truncates the report file and returns the path used.
// If neither location can be opened nothing is written.
func (w *Writer) Write(r *Report) (string, error) {
	f, path, failed, err := w.open()
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriter(f)
	if failed {
		fmt.Fprintf(bw, "Original File Location Failed: %s\n", w.Primary)
	}
	writeReport(bw, r)

	err = multierr.Combine(bw.Flush(), f.Sync(), f.Close())
	if err != nil {
		return path, errors.Wrap(err, 0)
	}
	return path, nil
}

func (w *Writer) open() (*os.File, string, bool, error) {
	f, err := create(w.Primary)
	if err == nil {
		return f, w.Primary, false, nil
	}

	log.WithError(err).
		WithField("path", w.Primary).
		Warning("Can't open crash file")

	if w.FallbackDir == "" {
		return nil, "", false, errors.Wrap(err, 0)
	}

	fallback := filepath.Join(w.FallbackDir, filepath.Base(w.Primary))
	f, ferr := create(fallback)
	if ferr != nil {
		log.WithError(ferr).
			WithField("path", fallback).
			Error("Can't open fallback crash file")
		return nil, "", false, errors.Wrap(multierr.Append(err, ferr), 0)
	}
	return f, fallback, true, nil
}

func create(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("Empty crash file path")
	}
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
}

// Format writes r as text to out.
func Format(out io.Writer, r *Report) error {
	bw := bufio.NewWriter(out)
	writeReport(bw, r)
	return bw.Flush()
}

func writeReport(bw *bufio.Writer, r *Report) {
	fmt.Fprintf(bw, "%s\n", r.Classification)
	fmt.Fprintf(bw, "exePath: %s\n", r.ExePath)
	fmt.Fprintf(bw, "code: %s\n", r.Code.Hex())
	if r.Trigger != "" {
		fmt.Fprintf(bw, "trigger: %s\n", r.Trigger)
	}
	if r.Session != "" {
		fmt.Fprintf(bw, "session: %s\n", r.Session)
	}
	if r.Host != "" {
		fmt.Fprintf(bw, "host: %s\n", r.Host)
	}
	if r.Panic != "" {
		fmt.Fprintf(bw, "panic: %s\n", r.Panic)
	}
	if r.Signature != "" {
		fmt.Fprintf(bw, "signature: %s\n", r.Signature)
	}
	if r.Source != "" {
		fmt.Fprintf(bw, "source: %s\n", r.Source)
	}

	digits := r.Arch.Digits()
	for i := range r.Frames {
		e := &r.Frames[i]

		bw.WriteString(separator)
		fmt.Fprintf(bw, "Stack=%0*X Frame=%0*X PC=%0*X Return=%0*X\n",
			digits, e.Stack,
			digits, e.Frame,
			digits, e.PC,
			digits, e.Return)

		if e.Symbol.Resolved() {
			fmt.Fprintf(bw, "Trace %d\n::File: %s\n::Function: %s\n::Line: %d\n",
				i+1,
				e.Symbol.File,
				e.Symbol.Name(),
				e.Symbol.Line)
		}
	}

	if r.Truncated {
		bw.WriteString(separator)
		fmt.Fprintf(bw, "more than %d frames, the rest are not shown\n", MaxFrames)
	}
}
