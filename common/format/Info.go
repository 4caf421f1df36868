package format

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
)

// Info describes the process a report was taken from.
type Info struct {
	Version   string `json:"version"`
	Platform  string `json:"platform"`
	Cpu       string `json:"cpu"`
	GoVersion string `json:"go"`
	Pid       int    `json:"pid"`
}

func CollectInfo() *Info {
	i := &Info{
		Version:   "(devel)",
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Cpu:       fmt.Sprintf("%d", runtime.NumCPU()),
		GoVersion: runtime.Version(),
		Pid:       os.Getpid(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		i.Version = bi.Main.Version
	}
	return i
}

func (i *Info) String() string {
	return fmt.Sprintf("version=%s platform=%s cpus=%s go=%s pid=%d",
		i.Version,
		i.Platform,
		i.Cpu,
		i.GoVersion,
		i.Pid)
}
