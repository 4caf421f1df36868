package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"crashlog/capture"
	"crashlog/cfg"
)

const (
	FAULT  = `fault`
	WORKER = `worker`
)

type Trigger func(crash *capture.State)

var triggers = map[string]Trigger{
	"nil":       nilDeref,
	"div":       divideByZero,
	"index":     outOfRange,
	"panic":     explicitPanic,
	"interrupt": interrupt,
	"exit":      exit,
}

func RunCommand() cli.Command {
	return cli.Command{
		Name:   "run",
		Usage:  "initialise crash capture and trigger a fault",
		Action: run,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  CONFIG,
				Usage: "path to configuration file",
			},
			cli.StringFlag{
				Name:  FILE,
				Usage: "crash file, overrides the configuration",
			},
			cli.StringFlag{
				Name:  FAULT,
				Value: "nil",
				Usage: "nil, div, index, panic, interrupt or exit",
			},
			cli.BoolFlag{
				Name:  WORKER,
				Usage: "trigger the fault on a worker goroutine",
			},
		},
	}
}

func loadConfig(c *cli.Context) (cfg.Config, error) {
	path := c.String(CONFIG)
	if path == "" {
		return cfg.Default(), nil
	}
	return cfg.FromJson(path)
}

func run(c *cli.Context) error {
	conf, err := loadConfig(c)
	if err != nil {
		return err
	}
	setLogLevel(conf.LogLevel())

	name := c.String(FAULT)
	trigger, ok := triggers[name]
	if !ok {
		return fmt.Errorf("Unknown fault %s", name)
	}

	opts := cfg.Options(conf, capture.CleanerFunc(cleanup), name)
	if f := c.String(FILE); f != "" {
		opts.File = f
	}

	crash := capture.Initialise(opts)
	defer crash.AtExit()
	defer crash.Fault()

	if c.Bool(WORKER) {
		done := make(chan struct{})
		crash.Go(func() {
			trigger(crash)
			close(done)
		})
		<-done
		return nil
	}

	trigger(crash)
	return nil
}

func cleanup(param interface{}) {
	log.WithField("fault", param).Info("Cleanup")
}

type point struct {
	x, y int
}

var sink int

func nilDeref(*capture.State) {
	var p *point
	sink = p.x
}

func divideByZero(*capture.State) {
	zero := sink * 0
	sink = 1 / zero
}

func outOfRange(*capture.State) {
	var values []int
	sink = values[sink+3]
}

func explicitPanic(*capture.State) {
	panic("crashlog-cli: requested panic")
}

func interrupt(*capture.State) {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		log.WithError(err).Error("Can't find own process")
		return
	}
	if err := p.Signal(os.Interrupt); err != nil {
		log.WithError(err).Error("Can't send interrupt")
		return
	}

	time.Sleep(10 * time.Second)
	log.Warning("Interrupt was not delivered")
}

func exit(crash *capture.State) {
	crash.Exit(3)
}
