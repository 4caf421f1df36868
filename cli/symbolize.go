package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"crashlog/common/symbols"
)

const (
	SYM  = `sym`
	SIZE = `size`
)

func SymbolizeCommand() cli.Command {
	return cli.Command{
		Name:      "symbolize",
		Aliases:   []string{"sym"},
		Usage:     "resolve module offsets against a breakpad symbol file",
		ArgsUsage: "<offset>...",
		Action:    symbolize,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  SYM,
				Usage: "path to the .sym file",
			},
			cli.StringFlag{
				Name:  SIZE,
				Usage: "module size in hex, bounds the last PUBLIC record",
			},
		},
	}
}

func symbolize(c *cli.Context) error {
	path := c.String(SYM)
	if path == "" {
		return fmt.Errorf("Symbol file is not set")
	}

	b, err := symbols.LoadBreakpad(path)
	if err != nil {
		return err
	}

	if size := c.String(SIZE); size != "" {
		b.Extent, err = strconv.ParseUint(strings.TrimPrefix(size, "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("Invalid module size %s", size)
		}
	}

	log.WithFields(log.Fields{
		"os":   b.OS,
		"id":   b.ID,
		"name": b.Name,
	}).Debug("Symbols loaded")

	return lookup(c.App.Writer, b, c.Args())
}

func lookup(w io.Writer, b *symbols.Breakpad, args []string) error {
	var sym symbols.Symbol
	for _, arg := range args {
		offset, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("Invalid offset %s", arg)
		}

		sym.Reset(uintptr(offset))
		fn := b.Function(offset, &sym)
		ln := b.Line(offset, &sym)

		switch {
		case fn && ln:
			fmt.Fprintf(w, "%s %s+0x%x %s:%d\n", arg, sym.NameString(), sym.Displacement, sym.File, sym.Line)
		case fn:
			fmt.Fprintf(w, "%s %s+0x%x\n", arg, sym.NameString(), sym.Displacement)
		default:
			fmt.Fprintf(w, "%s ??\n", arg)
		}
	}
	return nil
}
