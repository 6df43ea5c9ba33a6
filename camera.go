/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Scale-to-camera resolver
 */

package main

import (
	"fmt"
	"math"
	"strings"
)

// OrthoCalibration relates orthographic scale to the physical
// sheet height at unit scale 1.0. It is an empirical constant.
const OrthoCalibration = 1.3648

// CMPerMeter is the count of centimeters per meter
const CMPerMeter = 100

// Projection represents a camera projection kind
type Projection int

// Projection kinds
const (
	Orthographic Projection = iota
	Perspective
	Panoramic
)

// String returns Projection name
func (p Projection) String() string {
	switch p {
	case Orthographic:
		return "ORTHO"
	case Perspective:
		return "PERSP"
	case Panoramic:
		return "PANO"
	}

	return fmt.Sprintf("unknown (%d)", int(p))
}

// ParseProjection parses Projection name
func ParseProjection(s string) (Projection, error) {
	switch strings.ToUpper(s) {
	case "ORTHO", "ORTHOGRAPHIC":
		return Orthographic, nil
	case "PERSP", "PERSPECTIVE":
		return Perspective, nil
	case "PANO", "PANORAMIC":
		return Panoramic, nil
	}
	return 0, fmt.Errorf("%q: must be ORTHO, PERSP or PANO", s)
}

// CameraProjection is the computed camera parameter. Kind tells
// which camera field Value belongs to: Orthographic means the
// orthographic scale, Perspective means the focal length
type CameraProjection struct {
	Kind  Projection
	Value float64
}

// String returns CameraProjection as a "field=value" string
func (cp CameraProjection) String() string {
	switch cp.Kind {
	case Orthographic:
		return fmt.Sprintf("ortho-scale=%g", cp.Value)
	case Perspective:
		return fmt.Sprintf("focal-length=%g", cp.Value)
	}
	return fmt.Sprintf("%s=%g", cp.Kind, cp.Value)
}

// ResolveCamera computes the camera parameter that renders the
// scene at the requested model:print scale factor on paper of the
// given size (cm).
//
// Only Orthographic and Perspective projections are supported,
// other kinds fail with ErrInvalidProjection.
//
// The orthographic scale of the host ignores the scene unit scale,
// hence the division by unitScale. The perspective formula uses the
// longer side of the sheet and ignores camera distance and field
// of view, so it is an approximation only.
func ResolveCamera(widthCM, heightCM, unitScale float64,
	kind Projection, factor float64) (CameraProjection, error) {

	if err := ValidateScaleFactor(factor); err != nil {
		return CameraProjection{}, err
	}

	if !(unitScale > 0) {
		return CameraProjection{}, fmt.Errorf("unit-scale: %v: %w",
			unitScale, ErrDegenerateUnitScale)
	}

	switch kind {
	case Orthographic:
		v := (OrthoCalibration / unitScale) / factor
		return CameraProjection{Kind: Orthographic, Value: v}, nil

	case Perspective:
		longer := math.Max(widthCM, heightCM) / CMPerMeter
		v := (longer / unitScale) / factor
		return CameraProjection{Kind: Perspective, Value: v}, nil
	}

	return CameraProjection{}, fmt.Errorf("%s: %w", kind, ErrInvalidProjection)
}
