/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Tests for the paper/resolution resolver
 */

package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// settingsCmp are cmp options for PrintSettings comparison
var settingsCmp = []cmp.Option{
	cmp.AllowUnexported(ScaleFactorState{}),
	cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	}),
}

// mustCatalog returns the builtin catalog or fails the test
func mustCatalog(t *testing.T) *PresetCatalog {
	cat, err := NewPresetCatalog()
	if err != nil {
		t.Fatalf("NewPresetCatalog(): %s", err)
	}
	return cat
}

// Test Resolve() with known answers
func TestResolve(t *testing.T) {
	cat := mustCatalog(t)

	type testData struct {
		name     string
		modify   func(ps *PrintSettings)
		wcm, hcm float64
		wpx, hpx int
	}

	tests := []testData{
		{
			name: "A4 portrait",
			modify: func(ps *PrintSettings) {
				ps.Preset = "A4_21.0_29.7"
			},
			wcm: 21.0, hcm: 29.7, wpx: 2481, hpx: 3508,
		},
		{
			name: "A4 landscape",
			modify: func(ps *PrintSettings) {
				ps.Preset = "A4_21.0_29.7"
				ps.Orientation = Landscape
			},
			wcm: 29.7, hcm: 21.0, wpx: 3508, hpx: 2481,
		},
		{
			name:   "custom cm to pixels",
			modify: func(ps *PrintSettings) {},
			wcm:    5, hcm: 3, wpx: 591, hpx: 355,
		},
		{
			name: "custom ignores orientation",
			modify: func(ps *PrintSettings) {
				ps.Orientation = Landscape
			},
			wcm: 5, hcm: 3, wpx: 591, hpx: 355,
		},
		{
			name: "custom pixels to cm",
			modify: func(ps *PrintSettings) {
				ps.Direction = PixelsToCM
			},
			wcm: 7.62, hcm: 5.08, wpx: 900, hpx: 600,
		},
		{
			name: "A4 pixels to cm",
			modify: func(ps *PrintSettings) {
				ps.Preset = "A4_21.0_29.7"
				ps.Direction = PixelsToCM
				ps.WidthPx, ps.HeightPx = 100, 100
			},
			wcm: 2481.0 / 300 * 2.54, hcm: 3508.0 / 300 * 2.54,
			wpx: 2481, hpx: 3508,
		},
		{
			name: "Letter 72 dpi",
			modify: func(ps *PrintSettings) {
				ps.Preset = "Letter_21.6_27.9"
				ps.DPI = 72
			},
			wcm: 21.6, hcm: 27.9, wpx: 613, hpx: 791,
		},
	}

	for _, test := range tests {
		ps := DefaultPrintSettings()
		test.modify(&ps)

		out, err := Resolve(ps, cat)
		if err != nil {
			t.Errorf("%s: %s", test.name, err)
			continue
		}

		if !floatNear(out.WidthCM, test.wcm) ||
			!floatNear(out.HeightCM, test.hcm) ||
			out.WidthPx != test.wpx || out.HeightPx != test.hpx {
			t.Errorf("%s:\n"+
				"expected: %gx%g cm, %dx%d px\n"+
				"present:  %gx%g cm, %dx%d px",
				test.name,
				test.wcm, test.hcm, test.wpx, test.hpx,
				out.WidthCM, out.HeightCM, out.WidthPx, out.HeightPx)
		}
	}
}

// Test that Resolve() never produces a render smaller than the
// preset, and overshoots by less than one pixel
func TestResolveRoundTrip(t *testing.T) {
	cat := mustCatalog(t)

	for _, preset := range cat.Presets() {
		if preset.IsCustom() {
			continue
		}

		for _, o := range []Orientation{Portrait, Landscape} {
			for _, dpi := range []int{72, 150, 300, 600, 1200, 1800} {
				ps := DefaultPrintSettings()
				ps.Preset = preset.ID
				ps.Orientation = o
				ps.DPI = dpi

				fwd, err := Resolve(ps, cat)
				if err != nil {
					t.Fatalf("%s: %s", preset.ID, err)
				}

				fwd.Direction = PixelsToCM
				back, err := Resolve(fwd, cat)
				if err != nil {
					t.Fatalf("%s: %s", preset.ID, err)
				}

				if back.WidthPx != fwd.WidthPx || back.HeightPx != fwd.HeightPx {
					t.Errorf("%s %s %d dpi: pixels changed %dx%d -> %dx%d",
						preset.ID, o, dpi,
						fwd.WidthPx, fwd.HeightPx,
						back.WidthPx, back.HeightPx)
				}

				pixel := CMPerInch / float64(dpi)
				check := func(what string, before, after float64) {
					if after < before-1e-9 || after-before >= pixel+1e-9 {
						t.Errorf("%s %s %d dpi: %s %g -> %g",
							preset.ID, o, dpi, what, before, after)
					}
				}

				check("width", fwd.WidthCM, back.WidthCM)
				check("height", fwd.HeightCM, back.HeightCM)
			}
		}
	}
}

// Test that Resolve() is idempotent
func TestResolveIdempotent(t *testing.T) {
	cat := mustCatalog(t)

	for _, dir := range []Direction{CMToPixels, PixelsToCM} {
		for _, id := range []string{PresetDefault, "B3_35.3_50.0", "Arch C_45.7_61.0"} {
			ps := DefaultPrintSettings()
			ps.Direction = dir
			ps.Preset = id
			ps.DPI = 600

			once, err := Resolve(ps, cat)
			if err != nil {
				t.Fatalf("%s: %s", id, err)
			}

			twice, err := Resolve(once, cat)
			if err != nil {
				t.Fatalf("%s: %s", id, err)
			}

			if diff := cmp.Diff(once, twice, settingsCmp...); diff != "" {
				t.Errorf("%s, %s: not idempotent (-once +twice):\n%s",
					id, dir, diff)
			}
		}
	}
}

// Test Resolve() errors
func TestResolveErrors(t *testing.T) {
	cat := mustCatalog(t)

	ps := DefaultPrintSettings()
	ps.Preset = "Z9_1_1"
	out, err := Resolve(ps, cat)
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("unknown preset: %v, must be ErrUnknownPreset", err)
	}
	if diff := cmp.Diff(ps, out, settingsCmp...); diff != "" {
		t.Errorf("settings modified on error:\n%s", diff)
	}

	ps = DefaultPrintSettings()
	ps.DPI = 0
	_, err = Resolve(ps, cat)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("zero dpi: %v, must be ErrOutOfRange", err)
	}
}

// Test PixelsFromCM() and CMFromPixels()
func TestPixelConversions(t *testing.T) {
	tests := []struct {
		cm  float64
		dpi int
		px  int
	}{
		{1, 300, 119},
		{5, 300, 591},
		{3, 300, 355},
		{21.0, 300, 2481},
		{29.7, 300, 3508},
	}

	for _, test := range tests {
		px := PixelsFromCM(test.cm, test.dpi)
		if px != test.px {
			t.Errorf("PixelsFromCM(%g,%d): %d, must be %d",
				test.cm, test.dpi, px, test.px)
		}
	}

	if cm := CMFromPixels(600, 300); !floatNear(cm, 5.08) {
		t.Errorf("CMFromPixels(600,300): %g, must be 5.08", cm)
	}
}
