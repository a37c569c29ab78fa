// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package debug configures logging and profiling from command line flags.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingCategory groups the flags of this package in the help output.
const LoggingCategory = "LOGGING AND DEBUGGING"

var (
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		EnvVars:  []string{"WEB3_VERBOSITY"},
		Category: LoggingCategory,
	}
	logVmoduleFlag = &cli.StringFlag{
		Name:     "log.vmodule",
		Usage:    "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. core/state=5,core/web3=4)",
		Value:    "",
		Category: LoggingCategory,
	}
	logFormatFlag = &cli.StringFlag{
		Name:     "log.format",
		Usage:    "Log format to use (json|logfmt|terminal)",
		EnvVars:  []string{"WEB3_LOG_FORMAT"},
		Category: LoggingCategory,
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Write logs to a file",
		Category: LoggingCategory,
	}
	logRotateFlag = &cli.BoolFlag{
		Name:     "log.rotate",
		Usage:    "Enables log file rotation",
		Category: LoggingCategory,
	}
	logMaxSizeMBsFlag = &cli.IntFlag{
		Name:     "log.maxsize",
		Usage:    "Maximum size in MBs of a single log file",
		Value:    100,
		Category: LoggingCategory,
	}
	logMaxBackupsFlag = &cli.IntFlag{
		Name:     "log.maxbackups",
		Usage:    "Maximum number of log files to retain",
		Value:    10,
		Category: LoggingCategory,
	}
	logMaxAgeFlag = &cli.IntFlag{
		Name:     "log.maxage",
		Usage:    "Maximum number of days to retain a log file",
		Value:    30,
		Category: LoggingCategory,
	}
	logCompressFlag = &cli.BoolFlag{
		Name:     "log.compress",
		Usage:    "Compress the log files",
		Value:    false,
		Category: LoggingCategory,
	}
	pprofFlag = &cli.BoolFlag{
		Name:     "pprof",
		Usage:    "Enable the pprof HTTP server",
		Category: LoggingCategory,
	}
	pprofAddrFlag = &cli.StringFlag{
		Name:     "pprof.addr",
		Usage:    "pprof HTTP server listening address",
		Value:    "127.0.0.1:6061",
		Category: LoggingCategory,
	}
)

// Flags holds all command-line flags required for debugging.
var Flags = []cli.Flag{
	verbosityFlag,
	logVmoduleFlag,
	logFormatFlag,
	logFileFlag,
	logRotateFlag,
	logMaxSizeMBsFlag,
	logMaxBackupsFlag,
	logMaxAgeFlag,
	logCompressFlag,
	pprofFlag,
	pprofAddrFlag,
}

// LogConfig is the logging setup selected by the flags.
type LogConfig struct {
	Verbosity  int
	Vmodule    string
	Format     string // json, logfmt or terminal
	File       string
	Rotate     bool
	MaxSizeMB  int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

var logOutputFile io.WriteCloser

// Setup initializes profiling and logging based on the CLI flags.
// It should be called as early as possible in the program.
func Setup(ctx *cli.Context) error {
	cfg := LogConfig{
		Verbosity:  ctx.Int(verbosityFlag.Name),
		Vmodule:    ctx.String(logVmoduleFlag.Name),
		Format:     ctx.String(logFormatFlag.Name),
		File:       ctx.String(logFileFlag.Name),
		Rotate:     ctx.Bool(logRotateFlag.Name),
		MaxSizeMB:  ctx.Int(logMaxSizeMBsFlag.Name),
		MaxBackups: ctx.Int(logMaxBackupsFlag.Name),
		MaxAge:     ctx.Int(logMaxAgeFlag.Name),
		Compress:   ctx.Bool(logCompressFlag.Name),
	}
	handler, err := NewHandler(cfg, os.Stderr)
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(handler))

	if ctx.Bool(pprofFlag.Name) {
		StartPProf(ctx.String(pprofAddrFlag.Name))
	}
	if cfg.File != "" || cfg.Rotate {
		log.Info("Logging configured", "format", cfg.formatName(), "rotate", cfg.Rotate, "location", cfg.File)
	}
	return nil
}

func (cfg LogConfig) formatName() string {
	if cfg.Format == "" {
		return "terminal"
	}
	return cfg.Format
}

// NewHandler builds the root log handler writing to terminal and, when
// configured, to a log file.
func NewHandler(cfg LogConfig, terminal *os.File) (*log.GlogHandler, error) {
	var (
		handler        slog.Handler
		terminalOutput = io.Writer(terminal)
		output         io.Writer
	)
	if cfg.File != "" {
		if err := validateLogLocation(filepath.Dir(cfg.File)); err != nil {
			return nil, fmt.Errorf("failed to initialize file logger: %v", err)
		}
	}
	switch {
	case cfg.Rotate:
		// Lumberjack uses <processname>-lumberjack.log in os.TempDir() if empty.
		logOutputFile = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		output = io.MultiWriter(terminalOutput, logOutputFile)
	case cfg.File != "":
		var err error
		if logOutputFile, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err != nil {
			return nil, err
		}
		output = io.MultiWriter(logOutputFile, terminalOutput)
	default:
		output = terminalOutput
	}

	switch cfg.formatName() {
	case "json":
		handler = log.JSONHandler(output)
	case "logfmt":
		handler = log.LogfmtHandler(output)
	case "terminal":
		useColor := (isatty.IsTerminal(terminal.Fd()) || isatty.IsCygwinTerminal(terminal.Fd())) && os.Getenv("TERM") != "dumb"
		if useColor {
			terminalOutput = colorable.NewColorable(terminal)
			if logOutputFile != nil {
				output = io.MultiWriter(logOutputFile, terminalOutput)
			} else {
				output = terminalOutput
			}
		}
		handler = log.NewTerminalHandler(output, useColor)
	default:
		return nil, fmt.Errorf("unknown log format: %v", cfg.Format)
	}

	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(log.FromLegacyLevel(cfg.Verbosity))
	if err := glogger.Vmodule(cfg.Vmodule); err != nil {
		return nil, fmt.Errorf("invalid log.vmodule: %w", err)
	}
	return glogger, nil
}

// StartPProf starts the pprof HTTP server for profiling.
func StartPProf(address string) {
	log.Info("Starting pprof server", "addr", fmt.Sprintf("http://%s/debug/pprof", address))
	go func() {
		if err := http.ListenAndServe(address, nil); err != nil {
			log.Error("Failure in running pprof server", "err", err)
		}
	}()
}

// Exit closes the log file, if any.
func Exit() {
	if logOutputFile != nil {
		logOutputFile.Close()
	}
}

// validateLogLocation checks if the log directory is valid and writable.
func validateLogLocation(path string) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("error creating the directory: %w", err)
	}
	// Check if the path is writable by trying to create a temporary file
	tmp := filepath.Join(path, "tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(tmp)
}
