/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Paper/resolution resolver
 */

package main

import (
	"fmt"
	"math"
)

// Resolve brings cm and pixel dimensions of ps in agreement with
// the selected preset, orientation, direction and DPI, and returns
// the updated settings. ps itself is not modified.
//
// Pixel counts are always rounded up, so the render never covers
// less paper than requested.
//
// In the PixelsToCM direction with a real preset, the preset wins:
// cm come from the preset, pixels are computed from cm, and cm are
// then recomputed from pixels to absorb the rounding. With the
// custom preset the pixels are the input and only cm are recomputed.
func Resolve(ps PrintSettings, cat *PresetCatalog) (PrintSettings, error) {
	preset, err := cat.Lookup(ps.Preset)
	if err != nil {
		return ps, err
	}

	if ps.DPI <= 0 {
		return ps, fmt.Errorf("dpi: %d: %w", ps.DPI, ErrOutOfRange)
	}

	if !preset.IsCustom() {
		ps.WidthCM, ps.HeightCM = preset.Oriented(ps.Orientation)
	}

	switch ps.Direction {
	case CMToPixels:
		ps.WidthPx = PixelsFromCM(ps.WidthCM, ps.DPI)
		ps.HeightPx = PixelsFromCM(ps.HeightCM, ps.DPI)

	case PixelsToCM:
		if !preset.IsCustom() {
			ps.WidthPx = PixelsFromCM(ps.WidthCM, ps.DPI)
			ps.HeightPx = PixelsFromCM(ps.HeightCM, ps.DPI)
		}

		ps.WidthCM = CMFromPixels(ps.WidthPx, ps.DPI)
		ps.HeightCM = CMFromPixels(ps.HeightPx, ps.DPI)

	default:
		panic(fmt.Sprintf("internal error: unknown direction %d", int(ps.Direction)))
	}

	return ps, nil
}

// PixelsFromCM returns count of pixels, required to cover cm
// centimeters at the given DPI
func PixelsFromCM(cm float64, dpi int) int {
	return int(math.Ceil((cm * float64(dpi)) / CMPerInch))
}

// CMFromPixels returns length in cm, covered by px pixels
// at the given DPI
func CMFromPixels(px, dpi int) float64 {
	return (float64(px) / float64(dpi)) * CMPerInch
}
