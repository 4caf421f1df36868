package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	CONFIG = `config`
	FILE   = `file`
)

var Version = "dev"

func init() {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
}

func main() {
	app := cli.NewApp()
	app.Name = "crashlog-cli"
	app.Usage = "command line utils for crashlog"
	app.Version = Version

	app.Commands = []cli.Command{
		RunCommand(),
		ClassifyCommand(),
		SymbolizeCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func setLogLevel(lvl string) {
	if lvl == "" {
		return
	}

	level, err := log.ParseLevel(lvl)
	if err == nil {
		log.WithField("level", level).
			Debug("Change log level")
		log.SetLevel(level)
	} else {
		log.WithError(err).Warning("Can't setup log level")
	}
}
