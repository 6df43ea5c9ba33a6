/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * The main function
 */

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const usageText = `Usage:
    %s [mode] [options] [name=value ...]

Modes are:
    compute     - resolve settings, apply them and print the result
    shell       - read commands from stdin, try "help" there
    presets     - list paper presets
    printers    - discover IPP printers via DNS-SD
    check       - check configuration and exit

Options are
    -c file     - use this configuration file instead of defaults
    -printer uri - validate the job ticket with IPP printer
    -v          - verbose (debug) logging on console

Settings are given as name=value, names are:
    %s
`

// RunMode represents the program run mode
type RunMode int

// Run modes:
//
//	RunCompute  - resolve settings, apply and print the result
//	RunShell    - interactive command shell
//	RunPresets  - list paper presets
//	RunPrinters - discover IPP printers
//	RunCheck    - check configuration and exit
const (
	RunCompute RunMode = iota
	RunShell
	RunPresets
	RunPrinters
	RunCheck
)

// String returns RunMode name
func (m RunMode) String() string {
	switch m {
	case RunCompute:
		return "compute"
	case RunShell:
		return "shell"
	case RunPresets:
		return "presets"
	case RunPrinters:
		return "printers"
	case RunCheck:
		return "check"
	}

	return fmt.Sprintf("unknown (%d)", int(m))
}

// RunParameters represents the program run parameters
type RunParameters struct {
	Mode       RunMode       // Run mode
	ConfFiles  []string      // Configuration files, nil for default
	PrinterURI string        // Printer URI, overrides configuration
	Verbose    bool          // Debug logging on console
	Settings   []ConfSetting // Settings from the command line
}

// usage prints detailed usage and exits
func usage() {
	fmt.Printf(usageText, os.Args[0], strings.Join(SettingNames, ", "))
	os.Exit(0)
}

// usageError prints usage error and exits
func usageError(format string, args ...interface{}) {
	if format != "" {
		fmt.Printf(format+"\n", args...)
	}

	fmt.Printf("Try %s -h for more information\n", os.Args[0])
	os.Exit(1)
}

// parseArgv parses program parameters. In a case of usage error,
// it prints a error message and exits
func parseArgv(argv []string) (params RunParameters) {
	modes := 0
	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		// Fetch option value
		value := func() string {
			if i+1 >= len(argv) {
				usageError("Option %s requires a value", arg)
			}
			i++
			return argv[i]
		}

		switch arg {
		case "-h", "-help", "--help":
			usage()
		case "compute":
			params.Mode = RunCompute
			modes++
		case "shell":
			params.Mode = RunShell
			modes++
		case "presets":
			params.Mode = RunPresets
			modes++
		case "printers":
			params.Mode = RunPrinters
			modes++
		case "check":
			params.Mode = RunCheck
			modes++
		case "-c":
			params.ConfFiles = append(params.ConfFiles, value())
		case "-printer":
			params.PrinterURI = value()
		case "-v":
			params.Verbose = true
		default:
			kv := strings.SplitN(arg, "=", 2)
			if len(kv) != 2 || strings.HasPrefix(arg, "-") {
				usageError("Invalid argument %s", arg)
			}
			params.Settings = append(params.Settings, ConfSetting{
				Origin: "argv",
				Name:   kv[0],
				Value:  kv[1],
			})
		}
	}

	if modes > 1 {
		usageError("Conflicting run modes")
	}

	return
}

// newSession creates the Session from configured and command-line
// settings, applied in order
func newSession(params RunParameters) (*Session, error) {
	cat, err := NewPresetCatalog(Conf.Presets...)
	if err != nil {
		return nil, fmt.Errorf("conf: %w", err)
	}

	s, err := NewSession(DefaultPrintSettings(), cat)
	if err != nil {
		return nil, err
	}

	settings := append(append([]ConfSetting(nil), Conf.Defaults...),
		params.Settings...)

	for _, set := range settings {
		err = s.Set(set.Name, set.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", set.Origin, err)
		}
	}

	return s, nil
}

// setupLogging configures loggers from Conf
func setupLogging(params RunParameters) {
	consoleLevels := Conf.LogConsole
	if params.Verbose {
		consoleLevels |= LogDebug | LogInfo | LogError
	}

	Console.SetLevels(consoleLevels)
	if Conf.ColorConsole {
		Console.ToColorConsole()
	}

	Log.SetLevels(Conf.LogMain)
	if Conf.LogFile != "" {
		Log.ToFile(Conf.LogFile, Conf.LogMaxFileSize, Conf.LogMaxBackupFiles)
	}
}

// The main function
func main() {
	// Parse arguments
	params := parseArgv(os.Args[1:])

	// Load configuration file
	files := params.ConfFiles
	if files == nil {
		files = ConfFiles()
	}

	err := ConfLoad(files...)
	Console.Check(err)

	if params.PrinterURI != "" {
		Conf.PrinterURI = params.PrinterURI
	}

	// Setup logging
	setupLogging(params)
	defer Log.Close()

	Log.Debug(' ', "print2scale started in %q mode, pid=%d",
		params.Mode, os.Getpid())

	// Discover printers, if requested
	if params.Mode == RunPrinters {
		if !Conf.Discovery {
			Log.Exit('!', "Printer discovery disabled in configuration")
		}

		ctx, cancel := context.WithTimeout(context.Background(),
			Conf.PrinterTimeout)
		printers, err := DiscoverPrinters(ctx)
		cancel()
		Log.Check(err)

		WritePrinters(os.Stdout, printers)
		return
	}

	// Create the session
	session, err := newSession(params)
	Log.Check(err)

	switch params.Mode {
	case RunPresets:
		WritePresets(os.Stdout, session.Catalog().Presets())

	case RunCheck:
		Console.Info(' ', "Configuration files: OK")
		WriteSettings(os.Stdout, session)

	case RunShell:
		sh := &Shell{
			Session:    session,
			Scene:      NewScene(Conf.UnitScale, Conf.Camera, Conf.Projection),
			Out:        os.Stdout,
			PrinterURI: Conf.PrinterURI,
			Timeout:    Conf.PrinterTimeout,
			Discovery:  Conf.Discovery,
		}

		prompt := ""
		if term.IsTerminal(int(os.Stdin.Fd())) {
			prompt = "print2scale> "
		}

		err = sh.Run(os.Stdin, prompt)
		Log.Check(err)

	case RunCompute:
		scene := NewScene(Conf.UnitScale, Conf.Camera, Conf.Projection)
		res, err := session.Apply(scene)
		WriteSettings(os.Stdout, session)
		WriteApplyResult(os.Stdout, scene, res)
		Log.Check(err)

		if Conf.PrinterURI != "" {
			err = ValidateWithPrinter(os.Stdout, Conf.PrinterURI,
				Conf.PrinterTimeout, session.Settings())
			Log.Check(err)
		}
	}
}
