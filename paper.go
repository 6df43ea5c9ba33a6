/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Paper presets
 */

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PresetCustom is the kind of the "custom" sentinel preset. Its
// dimensions are supplied by the user and never taken from the ID.
const PresetCustom = "custom"

// PresetDefault is the ID of preset selected by default
const PresetDefault = "custom_1_1"

// PaperPreset represents a named paper size
type PaperPreset struct {
	ID     string  // Identifier, "<kind>_<width>_<height>"
	Kind   string  // Kind, i.e. "A4" or "custom"
	Label  string  // Human-readable label
	Width  float64 // Nominal width, cm
	Height float64 // Nominal height, cm
}

// IsCustom tells if preset is the "custom" sentinel
func (p PaperPreset) IsCustom() bool {
	return p.Kind == PresetCustom
}

// Oriented returns preset dimensions, in cm, for the given orientation.
// Presets are stored in portrait form, Landscape swaps them.
func (p PaperPreset) Oriented(o Orientation) (w, h float64) {
	switch o {
	case Landscape:
		return p.Height, p.Width
	case Portrait:
		return p.Width, p.Height
	}
	panic(fmt.Sprintf("internal error: unknown orientation %d", int(o)))
}

// ParsePresetID parses the "<kind>_<width>_<height>" preset identifier
func ParsePresetID(id string) (PaperPreset, error) {
	fields := strings.Split(id, "_")
	if len(fields) != 3 || fields[0] == "" {
		return PaperPreset{}, fmt.Errorf("%q: preset must be <kind>_<width>_<height>", id)
	}

	w, err := strconv.ParseFloat(fields[1], 64)
	if err == nil && !(w > 0) {
		err = fmt.Errorf("%q: width must be positive", id)
	}
	if err != nil {
		return PaperPreset{}, fmt.Errorf("%q: invalid width: %w", id, err)
	}

	h, err := strconv.ParseFloat(fields[2], 64)
	if err == nil && !(h > 0) {
		err = fmt.Errorf("%q: height must be positive", id)
	}
	if err != nil {
		return PaperPreset{}, fmt.Errorf("%q: invalid height: %w", id, err)
	}

	p := PaperPreset{
		ID:     id,
		Kind:   fields[0],
		Width:  w,
		Height: h,
	}

	p.Label = p.Kind
	if !p.IsCustom() {
		p.Label = fmt.Sprintf("%s (%sx%s cm)", p.Kind, fields[1], fields[2])
	}

	return p, nil
}

// PresetCatalog is the read-only, ordered collection of paper presets
type PresetCatalog struct {
	list  []PaperPreset
	index map[string]int
}

// builtinPresetIDs lists the presets every catalog starts with
var builtinPresetIDs = []string{
	PresetDefault,

	"A0_84.1_118.9", "A1_59.4_84.1", "A2_42.0_59.4", "A3_29.7_42.0",
	"A4_21.0_29.7", "A5_14.8_21.0", "A6_10.5_14.8", "A7_7.4_10.5",
	"A8_5.2_7.4", "A9_3.7_5.2", "A10_2.6_3.7",

	"B0_100.0_141.4", "B1_70.7_100.0", "B2_50.0_70.7", "B3_35.3_50.0",
	"B4_25.0_35.3", "B5_17.6_25.0", "B6_12.5_17.6", "B7_8.8_12.5",
	"B8_6.2_8.8", "B9_4.4_6.2", "B10_3.1_4.4",

	"C0_91.7_129.7", "C1_64.8_91.7", "C2_45.8_64.8", "C3_32.4_45.8",
	"C4_22.9_32.4", "C5_16.2_22.9", "C6_11.4_16.2", "C7_8.1_11.4",
	"C8_5.7_8.1", "C9_4.0_5.7", "C10_2.8_4.0",

	"Letter_21.6_27.9", "Legal_21.6_35.6", "Legal junior_20.3_12.7",
	"Ledger_43.2_27.9", "Tabloid_27.9_43.2",

	"ANSI C_43.2_55.9", "ANSI D_55.9_86.4", "ANSI E_86.4_111.8",

	"Arch A_22.9_30.5", "Arch B_30.5_45.7", "Arch C_45.7_61.0",
	"Arch D_61.0_91.4", "Arch E_91.4_121.9", "Arch E1_76.2_106.7",
	"Arch E2_66.0_96.5", "Arch E3_68.6_99.1",
}

// NewPresetCatalog creates a catalog of built-in presets, extended
// with additional presets. Each extra preset is given as
// identifier and optional label
func NewPresetCatalog(extra ...PaperPreset) (*PresetCatalog, error) {
	cat := &PresetCatalog{index: make(map[string]int)}

	for _, id := range builtinPresetIDs {
		p, err := ParsePresetID(id)
		if err != nil {
			panic("internal error: " + err.Error())
		}
		cat.add(p)
	}

	for _, p := range extra {
		if _, found := cat.index[p.ID]; found {
			return nil, fmt.Errorf("%q: duplicate preset", p.ID)
		}
		cat.add(p)
	}

	return cat, nil
}

// add appends preset to the catalog
func (cat *PresetCatalog) add(p PaperPreset) {
	cat.index[p.ID] = len(cat.list)
	cat.list = append(cat.list, p)
}

// Lookup returns preset by its identifier
func (cat *PresetCatalog) Lookup(id string) (PaperPreset, error) {
	if i, found := cat.index[id]; found {
		return cat.list[i], nil
	}
	return PaperPreset{}, fmt.Errorf("%q: %w", id, ErrUnknownPreset)
}

// Presets returns all presets, in catalog order
func (cat *PresetCatalog) Presets() []PaperPreset {
	return append([]PaperPreset(nil), cat.list...)
}

// PaperSize represents paper size, in IPP units (1/100 mm)
type PaperSize struct {
	Width, Height int // Paper width and height
}

// PaperSizeFromCM converts dimensions in cm into the PaperSize.
// 1 cm = 1000 IPP units
func PaperSizeFromCM(w, h float64) PaperSize {
	return PaperSize{
		Width:  int(math.Round(w * 1000)),
		Height: int(math.Round(h * 1000)),
	}
}
