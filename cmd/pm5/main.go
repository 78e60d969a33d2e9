package main

import (
	"fmt"
	"os"

	"github.com/michaelmohamed/pm5/pkg/config"
	"github.com/michaelmohamed/pm5/pkg/daemon"
	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/logging"
	"github.com/michaelmohamed/pm5/pkg/logging/zaplog"
	"github.com/michaelmohamed/pm5/pkg/processfile"
	"github.com/michaelmohamed/pm5/pkg/supervisor"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	Config   string `long:"config" short:"c" description:"Ecosystem configuration file path (JSON or YAML)"`
	Debug    bool   `long:"debug" short:"d" description:"Run in the foreground instead of daemonizing"`
	LogLevel string `long:"log-level" description:"Log level (debug, info, warn, error)" default:"info"`
	Args     struct {
		Command string `positional-arg-name:"command" description:"start or stop"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v", err)
		os.Exit(1)
	}

	zapLogger, err := zaplog.NewLogger(opts.LogLevel)
	if err != nil {
		fmt.Printf("Logger setup failed: %v", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(
		"pm5: ", logging.LogFuncs{
			LogLevelf: zapLogger.LogLevelf,
			Debugf:    zapLogger.Debugf,
			Infof:     zapLogger.Infof,
			Warnf:     zapLogger.Warnf,
			Errorf:    zapLogger.Errorf,
		})

	switch opts.Args.Command {
	case "start":
		err = runStart(opts, logger)
	case "stop":
		err = daemon.NewManager(daemon.DefaultPIDFileName, daemon.DefaultLogFileName, logger).Stop()
	default:
		logger.Errorf("Unknown command. Use 'start' or 'stop'.")
		err = errors.NewValidationError("unknown command", nil).WithContext("command", opts.Args.Command)
	}

	_ = zapLogger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func runStart(opts flagOptions, logger logging.Logger) error {
	if opts.Config == "" {
		err := errors.NewValidationError("a configuration file is required to start services", nil)
		logger.Errorf("%v", err)
		return err
	}

	cfg, err := config.LoadConfigFromFile(opts.Config)
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		return err
	}

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Errorf("Invalid configuration: %v", err)
		return err
	}

	if !opts.Debug && !daemon.IsChild() {
		return daemon.NewManager(daemon.DefaultPIDFileName, daemon.DefaultLogFileName, logger).Start()
	}

	runErr := supervisor.Run(supervisor.Options{}, cfg, logger)

	if daemon.IsChild() {
		_ = processfile.NewProcessFileManager(daemon.DefaultPIDFileName, logger).RemovePIDFile()
	}

	if runErr != nil {
		logger.Errorf("Failed to run: %v", runErr)
		return runErr
	}
	return nil
}
