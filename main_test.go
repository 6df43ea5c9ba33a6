/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Command line tests
 */

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Test parseArgv()
func TestParseArgv(t *testing.T) {
	tests := []struct {
		argv   []string
		params RunParameters
	}{
		{
			nil,
			RunParameters{Mode: RunCompute},
		},
		{
			[]string{"shell", "-v"},
			RunParameters{Mode: RunShell, Verbose: true},
		},
		{
			[]string{"-c", "a.conf", "-c", "b.conf", "check"},
			RunParameters{Mode: RunCheck, ConfFiles: []string{"a.conf", "b.conf"}},
		},
		{
			[]string{
				"compute",
				"-printer", "ipp://localhost/ipp/print",
				"preset=A4_21.0_29.7",
				"scale-factor=10",
			},
			RunParameters{
				Mode:       RunCompute,
				PrinterURI: "ipp://localhost/ipp/print",
				Settings: []ConfSetting{
					{"argv", "preset", "A4_21.0_29.7"},
					{"argv", "scale-factor", "10"},
				},
			},
		},
		{
			[]string{"presets"},
			RunParameters{Mode: RunPresets},
		},
		{
			[]string{"printers"},
			RunParameters{Mode: RunPrinters},
		},
	}

	for _, test := range tests {
		params := parseArgv(test.argv)
		if diff := cmp.Diff(test.params, params); diff != "" {
			t.Errorf("parseArgv(%q) (-expected +present):\n%s",
				test.argv, diff)
		}
	}
}

// Test RunMode names
func TestRunModeString(t *testing.T) {
	modes := map[RunMode]string{
		RunCompute:  "compute",
		RunShell:    "shell",
		RunPresets:  "presets",
		RunPrinters: "printers",
		RunCheck:    "check",
		RunMode(99): "unknown (99)",
	}

	for m, s := range modes {
		if m.String() != s {
			t.Errorf("RunMode(%d): %q, must be %q", int(m), m.String(), s)
		}
	}
}
