/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Interactive command shell
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const shellHelpText = `Commands are:
    set name value  - change a setting, names are:
                      %s
    show            - print current settings
    apply           - apply settings to the render and camera
    presets [glob]  - list paper presets, optionally matching glob
    printers        - discover IPP printers
    validate [uri]  - validate the job ticket with a printer
    help            - print this help
    quit            - exit the shell
`

// Shell executes commands against the Session, one line at a time.
// Settings, including the scale factor history, live as long as
// the Shell does
type Shell struct {
	Session    *Session      // Edited settings
	Scene      *Scene        // Scene to apply to
	Out        io.Writer     // Command output
	PrinterURI string        // Default printer for validate
	Timeout    time.Duration // Printer and discovery timeout
	Discovery  bool          // Printer discovery enabled
}

// errShellQuit is returned by Exec on quit command
var errShellQuit = errors.New("quit")

// Run reads and executes commands until EOF or quit. Command
// errors are reported and don't stop the shell
func (sh *Shell) Run(in io.Reader, prompt string) error {
	scanner := bufio.NewScanner(in)

	for {
		if prompt != "" {
			fmt.Fprint(sh.Out, prompt)
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		err := sh.Exec(scanner.Text())
		switch {
		case err == errShellQuit:
			return nil
		case err != nil:
			Console.Error('!', "%s", err)
		}
	}
}

// Exec executes a single command line
func (sh *Shell) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: set name value")
		}
		err := sh.Session.Set(args[0], strings.Join(args[1:], " "))
		if err == nil {
			WriteSettings(sh.Out, sh.Session)
		}
		return err

	case "show":
		WriteSettings(sh.Out, sh.Session)

	case "apply":
		res, err := sh.Session.Apply(sh.Scene)
		WriteApplyResult(sh.Out, sh.Scene, res)
		return err

	case "presets":
		presets := sh.Session.Catalog().Presets()
		if len(args) > 0 {
			pattern := strings.Join(args, " ")
			presets = sh.Session.Catalog().Find(pattern)
			if len(presets) == 0 {
				return fmt.Errorf("%q: no matching presets", pattern)
			}
		}
		WritePresets(sh.Out, presets)

	case "printers":
		if !sh.Discovery {
			return fmt.Errorf("printer discovery disabled")
		}
		ctx, cancel := context.WithTimeout(context.Background(), sh.Timeout)
		defer cancel()
		printers, err := DiscoverPrinters(ctx)
		if err != nil {
			return err
		}
		WritePrinters(sh.Out, printers)

	case "validate":
		uri := sh.PrinterURI
		if len(args) > 0 {
			uri = args[0]
		}
		if uri == "" {
			return fmt.Errorf("usage: validate uri")
		}
		return ValidateWithPrinter(sh.Out, uri, sh.Timeout, sh.Session.Settings())

	case "help":
		fmt.Fprintf(sh.Out, shellHelpText, strings.Join(SettingNames, ", "))

	case "quit", "exit":
		return errShellQuit

	default:
		return fmt.Errorf("%q: unknown command, try help", cmd)
	}

	return nil
}

// ValidateWithPrinter sends the job ticket of ps to the printer
// and writes the outcome
func ValidateWithPrinter(out io.Writer, uri string, timeout time.Duration,
	ps PrintSettings) error {

	client, err := NewIppClient(uri, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := client.ValidateJob(ctx, ps)
	if res.Status != 0 || err == nil {
		fmt.Fprintf(out, "printer        %s: %s\n", uri, res.Status)
	}

	if err == nil {
		if !res.MediaFits {
			fmt.Fprintf(out, "warning        paper size not in media-size-supported\n")
		}
		if !res.DPIFits {
			fmt.Fprintf(out, "warning        %d dpi not in printer-resolution-supported\n", ps.DPI)
		}
	}

	if len(res.Unsupported) != 0 {
		fmt.Fprintf(out, "unsupported    %s\n", strings.Join(res.Unsupported, ", "))
	}

	return err
}

// WriteSettings writes the session settings
func WriteSettings(out io.Writer, s *Session) {
	ps := s.Settings()
	label := ps.Preset
	if p, err := s.Catalog().Lookup(ps.Preset); err == nil {
		label = p.Label
	}

	inW, inH := ps.Inches()

	fmt.Fprintf(out, "direction      %s\n", ps.Direction)
	fmt.Fprintf(out, "orientation    %s\n", ps.Orientation)
	fmt.Fprintf(out, "preset         %s\n", label)
	fmt.Fprintf(out, "dpi            %d\n", ps.DPI)
	fmt.Fprintf(out, "size           %.2f x %.2f cm (%.2f x %.2f in)\n",
		ps.WidthCM, ps.HeightCM, inW, inH)
	fmt.Fprintf(out, "pixels         %d x %d\n", ps.WidthPx, ps.HeightPx)

	if ps.PrintToScale {
		fmt.Fprintf(out, "print to scale %s (factor %g)\n",
			ScaleLabel(ps.ScaleFactor), ps.ScaleFactor)
	} else {
		fmt.Fprintf(out, "print to scale disabled\n")
	}
}

// WriteApplyResult writes the outcome of (*Session) Apply
func WriteApplyResult(out io.Writer, scene *Scene, res ApplyResult) {
	fmt.Fprintf(out, "render         %d x %d\n", scene.ResolutionX, scene.ResolutionY)
	if res.CameraSet {
		made := ""
		if res.CameraMade {
			made = " (created)"
		}
		fmt.Fprintf(out, "camera         %s%s: %s %s\n",
			scene.Camera.Name, made, scene.Camera.Type, res.Camera)
	}
	fmt.Fprintf(out, "result         %s\n", res.State)
}

// WritePresets writes the list of presets
func WritePresets(out io.Writer, presets []PaperPreset) {
	for _, p := range presets {
		fmt.Fprintf(out, "%-24s %s\n", p.ID, p.Label)
	}
}

// WritePrinters writes the list of discovered printers
func WritePrinters(out io.Writer, printers []IppPrinter) {
	for i, p := range printers {
		fmt.Fprintf(out, "%3d. %-40s %q\n", i+1, p.URI, p.Name)
	}
}
