package cfg

import (
	"encoding/json"
	"os"

	"github.com/go-errors/errors"
	log "github.com/sirupsen/logrus"

	"crashlog/capture"
)

type Config interface {
	CrashFile() string
	SymbolsDir() string
	HandleExceptions() bool
	HandleExit() bool
	HandleVector() bool
	HandleConsole() bool
	IgnoreFrames() []string
	LogLevel() string
}

func FromJson(pathTo string) (Config, error) {
	file, err := os.Open(pathTo)
	if err != nil {
		log.WithError(err).Error("Get config failed")
		return nil, errors.Wrap(err, 0)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	var jconf JsonConfig
	err = decoder.Decode(&jconf)
	if err != nil {
		log.WithError(err).Error("Error at cfg parsing")
		return nil, errors.Wrap(err, 0)
	}

	if jconf.Handlers == nil {
		return nil, errors.New("handlers section is not set")
	}

	if lvl := jconf.LogLevel(); len(lvl) != 0 {
		if _, err := log.ParseLevel(lvl); err != nil {
			return nil, errors.WrapPrefix(err, "log.level", 0)
		}
	}

	return &jconf, nil
}

// Default subscribes every trigger and writes to capture.DefaultFile.
func Default() Config {
	return &JsonConfig{
		Crash: &CrashCfg{File: capture.DefaultFile},
		Handlers: &HandlersCfg{
			Exceptions: true,
			Exit:       true,
			Vector:     true,
			Console:    true,
		},
		Log: &LogCfg{Level: "info"},
	}
}

// Options turns c into capture options. The cleanup callback is the
// caller's.
func Options(c Config, cleanup capture.Cleaner, param interface{}) capture.Options {
	return capture.Options{
		File:             c.CrashFile(),
		SymbolsDir:       c.SymbolsDir(),
		HandleExceptions: c.HandleExceptions(),
		HandleExit:       c.HandleExit(),
		HandleVector:     c.HandleVector(),
		HandleConsole:    c.HandleConsole(),
		IgnoreFrames:     c.IgnoreFrames(),
		Cleanup:          cleanup,
		CleanupParam:     param,
	}
}
