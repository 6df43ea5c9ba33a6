/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Command shell tests
 */

package main

import (
	"bytes"
	"strings"
	"testing"
)

// newTestShell creates Shell with default settings and
// orthographic camera
func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	out := &bytes.Buffer{}
	sh := &Shell{
		Session: newTestSession(t),
		Scene:   NewScene(1, CameraPresent, Orthographic),
		Out:     out,
		Timeout: DefaultPrinterTimeout,
	}
	return sh, out
}

// Test (*Shell) Run()
func TestShellRun(t *testing.T) {
	sh, out := newTestShell(t)

	script := strings.Join([]string{
		"# comment",
		"",
		"set preset A4_21.0_29.7",
		"set scale-factor 10",
		"apply",
		"quit",
		"set dpi 600",
	}, "\n")

	err := sh.Run(strings.NewReader(script), "")
	if err != nil {
		t.Fatalf("Run(): %s", err)
	}

	expected := []string{
		"preset         A4 (21.0x29.7 cm)",
		"pixels         2481 x 3508",
		"print to scale 10:1 (factor 10)",
		"render         2481 x 3508",
		"camera         Camera: ORTHO ortho-scale=0.1364",
		"result         applied",
	}

	for _, s := range expected {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output doesn't contain %q:\n%s", s, out)
		}
	}

	if dpi := sh.Session.Settings().DPI; dpi != 300 {
		t.Errorf("command after quit executed, dpi=%d", dpi)
	}

	if sh.Scene.Camera.OrthoScale == 0 {
		t.Errorf("camera not updated")
	}
}

// Test (*Shell) Exec() errors
func TestShellExecErrors(t *testing.T) {
	sh, _ := newTestShell(t)

	bad := []string{
		"frobnicate",
		"set dpi",
		"set dpi many",
		"set width-px 100",
		"validate",
	}

	for _, line := range bad {
		if err := sh.Exec(line); err == nil {
			t.Errorf("Exec(%q): error expected", line)
		}
	}

	if err := sh.Exec("printers"); err == nil {
		t.Errorf("Exec(printers): error expected with discovery disabled")
	}

	if err := sh.Exec("exit"); err != errShellQuit {
		t.Errorf("Exec(exit): %v", err)
	}
}

// Test help, show and presets commands
func TestShellInfo(t *testing.T) {
	sh, out := newTestShell(t)

	for _, line := range []string{"help", "show", "presets"} {
		out.Reset()
		if err := sh.Exec(line); err != nil {
			t.Fatalf("Exec(%q): %s", line, err)
		}
		if out.Len() == 0 {
			t.Errorf("Exec(%q): no output", line)
		}
	}

	if !strings.Contains(out.String(), "Arch E3_68.6_99.1") {
		t.Errorf("presets output incomplete:\n%s", out)
	}
}

// Test validate command
func TestShellValidate(t *testing.T) {
	srv := ippTestServer(t)
	defer srv.Close()

	sh, out := newTestShell(t)
	sh.PrinterURI = srv.URL

	err := sh.Exec("validate")
	if err != nil {
		t.Fatalf("Exec(validate): %s", err)
	}

	if !strings.Contains(out.String(), "successful-ok") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out.Reset()
	sh.Exec("set dpi 600")
	out.Reset()

	err = sh.Exec("validate " + srv.URL)
	if err == nil {
		t.Errorf("Exec(validate): error expected")
	}

	if !strings.Contains(out.String(), "unsupported    printer-resolution") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// Test presets command with glob pattern
func TestShellPresetsGlob(t *testing.T) {
	sh, out := newTestShell(t)

	err := sh.Exec("presets arch e?_*")
	if err != nil {
		t.Fatalf("Exec(presets): %s", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "Arch E1_76.2_106.7") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if err = sh.Exec("presets Z*"); err == nil {
		t.Errorf("Exec(presets Z*): error expected")
	}
}
