package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"crashlog/common/fault"
)

func ClassifyCommand() cli.Command {
	return cli.Command{
		Name:      "classify",
		Usage:     "describe fault codes",
		ArgsUsage: "<code>...",
		Action: func(c *cli.Context) error {
			return classify(c.App.Writer, c.Args())
		},
	}
}

func classify(w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("Empty task, pass at least one code")
	}

	for _, arg := range args {
		code, err := parseCode(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s\n", code.Hex(), code)
	}
	return nil
}

// parseCode accepts hex with a 0x prefix or decimal.
func parseCode(s string) (fault.Code, error) {
	var v uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 32)
	} else {
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return fault.Unknown, fmt.Errorf("Invalid code %s", s)
	}
	return fault.Code(v), nil
}
