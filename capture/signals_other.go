//go:build !unix

package capture

import (
	"os"

	"crashlog/common/fault"
)

var consoleSignals = []os.Signal{os.Interrupt}

var fatalSignals []os.Signal

func raise(os.Signal) {
	code := fault.ControlCExit
	os.Exit(int(code))
}
