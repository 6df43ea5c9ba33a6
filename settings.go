/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Print settings
 */

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CMPerInch is the length of one inch, in cm
const CMPerInch = 2.54

// Bounds of PrintSettings fields
const (
	DPIMin         = 72
	DPIMax         = 1800
	CMMin          = 1.0
	CMMax          = 100000.0
	PixelsMin      = 4
	PixelsMax      = 10000
	ScaleFactorMax = 10000.0
)

// Direction represents the conversion direction, i.e. which pair
// of dimensions is the input
type Direction int

// Conversion directions:
//
//	CMToPixels - cm pair is the input, pixels are derived
//	PixelsToCM - pixels pair is the input, cm are derived
const (
	CMToPixels Direction = iota
	PixelsToCM
)

// String returns Direction name
func (d Direction) String() string {
	switch d {
	case CMToPixels:
		return "CM_TO_PIXELS"
	case PixelsToCM:
		return "PIXELS_TO_CM"
	}

	return fmt.Sprintf("unknown (%d)", int(d))
}

// ParseDirection parses Direction name
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "CM_TO_PIXELS", "CM":
		return CMToPixels, nil
	case "PIXELS_TO_CM", "PIXELS", "PX":
		return PixelsToCM, nil
	}
	return 0, fmt.Errorf("%q: must be CM_TO_PIXELS or PIXELS_TO_CM", s)
}

// Orientation represents page orientation
type Orientation int

// Page orientations. Landscape maps the longer side of a preset
// to width
const (
	Portrait Orientation = iota
	Landscape
)

// String returns Orientation name
func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "Portrait"
	case Landscape:
		return "Landscape"
	}

	return fmt.Sprintf("unknown (%d)", int(o))
}

// ParseOrientation parses Orientation name
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	}
	return 0, fmt.Errorf("%q: must be Portrait or Landscape", s)
}

// PrintSettings is the mutable print configuration. Which of the
// cm or pixels pair is authoritative depends on Direction and Preset,
// see (*PrintSettings) Authority
type PrintSettings struct {
	Direction    Direction   // Conversion direction
	Orientation  Orientation // Page orientation
	Preset       string      // Preset identifier
	DPI          int         // Dots per inch
	WidthCM      float64     // Paper width, cm
	HeightCM     float64     // Paper height, cm
	WidthPx      int         // Render width, pixels
	HeightPx     int         // Render height, pixels
	PrintToScale bool        // Compute camera from ScaleFactor
	ScaleFactor  float64     // Model:print scale factor

	// The previous committed scale factor, for the normalizer
	Scale ScaleFactorState
}

// DefaultPrintSettings returns settings with default values
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		Direction:    CMToPixels,
		Orientation:  Portrait,
		Preset:       PresetDefault,
		DPI:          300,
		WidthCM:      5.0,
		HeightCM:     3.0,
		WidthPx:      900,
		HeightPx:     600,
		PrintToScale: true,
		ScaleFactor:  1,
		Scale:        NewScaleFactorState(1),
	}
}

// Validate checks settings against their bounds
func (ps *PrintSettings) Validate() error {
	switch {
	case ps.DPI < DPIMin || ps.DPI > DPIMax:
		return ps.rangeError("dpi", ps.DPI, DPIMin, DPIMax)
	case !(ps.WidthCM >= CMMin && ps.WidthCM <= CMMax):
		return ps.rangeError("width-cm", ps.WidthCM, CMMin, CMMax)
	case !(ps.HeightCM >= CMMin && ps.HeightCM <= CMMax):
		return ps.rangeError("height-cm", ps.HeightCM, CMMin, CMMax)
	case ps.WidthPx < PixelsMin || ps.WidthPx > PixelsMax:
		return ps.rangeError("width-px", ps.WidthPx, PixelsMin, PixelsMax)
	case ps.HeightPx < PixelsMin || ps.HeightPx > PixelsMax:
		return ps.rangeError("height-px", ps.HeightPx, PixelsMin, PixelsMax)
	}

	return ValidateScaleFactor(ps.ScaleFactor)
}

// rangeError creates ErrOutOfRange error for the named field
func (ps *PrintSettings) rangeError(name string, v, min, max interface{}) error {
	return fmt.Errorf("%s: %v: %w (%v...%v)", name, v, ErrOutOfRange, min, max)
}

// ValidateScaleFactor checks the scale factor. Zero and negative
// factors never reach the camera formulas
func ValidateScaleFactor(f float64) error {
	if !(f > 0) {
		return fmt.Errorf("scale-factor: %v: %w", f, ErrDegenerateScaleFactor)
	}
	if f > ScaleFactorMax {
		return fmt.Errorf("scale-factor: %v: %w (max %v)",
			f, ErrOutOfRange, ScaleFactorMax)
	}
	return nil
}

// Inches returns paper dimensions in inches
func (ps *PrintSettings) Inches() (w, h float64) {
	return ps.WidthCM / CMPerInch, ps.HeightCM / CMPerInch
}

// Authority tells which dimension pairs may be edited directly.
//
// With a real preset both pairs come from the preset. With the
// custom preset, the pair selected by Direction is the input.
func (ps *PrintSettings) Authority(preset PaperPreset) (cm, px bool) {
	if !preset.IsCustom() {
		return false, false
	}

	switch ps.Direction {
	case CMToPixels:
		return true, false
	case PixelsToCM:
		return false, true
	}

	panic(fmt.Sprintf("internal error: unknown direction %d", int(ps.Direction)))
}

// ScaleLabel formats scale factor as the print-to-scale ratio:
// "N:1" for enlargements, "1:N" for reductions
func ScaleLabel(f float64) string {
	if f < 1 {
		if !(f > 0) {
			return "?"
		}
		n := math.Round(100/f) / 100
		return "1:" + strconv.FormatFloat(n, 'f', -1, 64)
	}

	return fmt.Sprintf("%d:1", int(f))
}
