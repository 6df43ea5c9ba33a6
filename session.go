/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Settings session: field updates and apply
 */

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting names, as accepted by (*Session) Set. Use these
// constants instead of literal strings
const (
	SetNmDirection    = "direction"
	SetNmOrientation  = "orientation"
	SetNmPreset       = "preset"
	SetNmDPI          = "dpi"
	SetNmWidthCM      = "width-cm"
	SetNmHeightCM     = "height-cm"
	SetNmWidthPx      = "width-px"
	SetNmHeightPx     = "height-px"
	SetNmPrintToScale = "print-to-scale"
	SetNmScaleFactor  = "scale-factor"
)

// SettingNames lists all setting names, in display order
var SettingNames = []string{
	SetNmDirection,
	SetNmOrientation,
	SetNmPreset,
	SetNmDPI,
	SetNmWidthCM,
	SetNmHeightCM,
	SetNmWidthPx,
	SetNmHeightPx,
	SetNmPrintToScale,
	SetNmScaleFactor,
}

// Session owns PrintSettings and keeps them consistent while
// fields are edited one by one.
//
// Every update runs under a latch: an update triggered while
// another one is in progress (e.g. from the OnChange callback)
// is ignored. Session is not safe for concurrent use.
type Session struct {
	settings PrintSettings
	catalog  *PresetCatalog
	updating bool

	// OnChange, if not nil, is called after a field is committed
	OnChange func(name string)
}

// NewSession creates a new Session. Initial settings are
// validated and resolved
func NewSession(ps PrintSettings, cat *PresetCatalog) (*Session, error) {
	err := ps.Validate()
	if err == nil {
		ps, err = Resolve(ps, cat)
	}

	if err != nil {
		return nil, err
	}

	return &Session{settings: ps, catalog: cat}, nil
}

// Settings returns the current settings
func (s *Session) Settings() PrintSettings {
	return s.settings
}

// Catalog returns the session presets catalog
func (s *Session) Catalog() *PresetCatalog {
	return s.catalog
}

// Set parses value and assigns it to the named setting
func (s *Session) Set(name, value string) error {
	value = strings.TrimSpace(value)

	switch name {
	case SetNmDirection:
		d, err := ParseDirection(value)
		if err != nil {
			return s.badValue(name, err)
		}
		return s.update(name, func(ps *PrintSettings) error {
			ps.Direction = d
			return nil
		})

	case SetNmOrientation:
		o, err := ParseOrientation(value)
		if err != nil {
			return s.badValue(name, err)
		}
		return s.update(name, func(ps *PrintSettings) error {
			ps.Orientation = o
			return nil
		})

	case SetNmPreset:
		return s.update(name, func(ps *PrintSettings) error {
			ps.Preset = value
			return nil
		})

	case SetNmDPI:
		dpi, err := strconv.Atoi(value)
		if err == nil && (dpi < DPIMin || dpi > DPIMax) {
			err = s.settings.rangeError(name, dpi, DPIMin, DPIMax)
		}
		if err != nil {
			return s.badValue(name, err)
		}
		return s.update(name, func(ps *PrintSettings) error {
			ps.DPI = dpi
			return nil
		})

	case SetNmWidthCM, SetNmHeightCM:
		cm, err := strconv.ParseFloat(value, 64)
		if err == nil && !(cm >= CMMin && cm <= CMMax) {
			err = s.settings.rangeError(name, cm, CMMin, CMMax)
		}
		if err != nil {
			return s.badValue(name, err)
		}
		return s.update(name, func(ps *PrintSettings) error {
			if err := s.checkAuthority(name, ps, true); err != nil {
				return err
			}
			if name == SetNmWidthCM {
				ps.WidthCM = cm
			} else {
				ps.HeightCM = cm
			}
			return nil
		})

	case SetNmWidthPx, SetNmHeightPx:
		px, err := strconv.Atoi(value)
		if err == nil && (px < PixelsMin || px > PixelsMax) {
			err = s.settings.rangeError(name, px, PixelsMin, PixelsMax)
		}
		if err != nil {
			return s.badValue(name, err)
		}
		return s.update(name, func(ps *PrintSettings) error {
			if err := s.checkAuthority(name, ps, false); err != nil {
				return err
			}
			if name == SetNmWidthPx {
				ps.WidthPx = px
			} else {
				ps.HeightPx = px
			}
			return nil
		})

	case SetNmPrintToScale:
		var on bool
		switch strings.ToLower(value) {
		case "enable", "on", "true", "yes":
			on = true
		case "disable", "off", "false", "no":
		default:
			return s.badValue(name, fmt.Errorf("%q: must be enable or disable", value))
		}
		return s.latch(name, func() error {
			s.settings.PrintToScale = on
			return nil
		})

	case SetNmScaleFactor:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return s.badValue(name, err)
		}
		return s.SetScaleFactor(f)
	}

	return fmt.Errorf("%q: %w", name, ErrUnknownField)
}

// SetScaleFactor validates the scale factor, passes it through
// the normalizer and commits the result
func (s *Session) SetScaleFactor(f float64) error {
	if err := ValidateScaleFactor(f); err != nil {
		return err
	}

	return s.latch(SetNmScaleFactor, func() error {
		accepted := s.settings.Scale.Normalize(f)
		if accepted != f {
			Log.Debug(' ', "scale-factor: %g normalized to %g", f, accepted)
		}
		s.settings.ScaleFactor = accepted
		return nil
	})
}

// update modifies a copy of settings, resolves it and commits
// the result. On error, settings are left unchanged
func (s *Session) update(name string, modify func(ps *PrintSettings) error) error {
	return s.latch(name, func() error {
		ps := s.settings
		if err := modify(&ps); err != nil {
			return err
		}

		resolved, err := Resolve(ps, s.catalog)
		if err != nil {
			return err
		}

		s.settings = resolved
		return nil
	})
}

// latch runs update, unless another update is in progress, and
// notifies OnChange on success
func (s *Session) latch(name string, update func() error) error {
	if s.updating {
		Log.Debug(' ', "%s: nested update ignored", name)
		return nil
	}

	s.updating = true
	defer func() { s.updating = false }()

	if err := update(); err != nil {
		return err
	}

	s.changed(name)
	return nil
}

// changed calls OnChange callback, if any
func (s *Session) changed(name string) {
	if s.OnChange != nil {
		s.OnChange(name)
	}
}

// checkAuthority returns ErrDerivedField if cm (or pixel, if cm
// is false) dimensions of ps are not the input in the current mode
func (s *Session) checkAuthority(name string, ps *PrintSettings, cm bool) error {
	preset, err := s.catalog.Lookup(ps.Preset)
	if err != nil {
		return err
	}

	cmInput, pxInput := ps.Authority(preset)
	if (cm && !cmInput) || (!cm && !pxInput) {
		return fmt.Errorf("%s: %w (preset %s, %s)",
			name, ErrDerivedField, ps.Preset, ps.Direction)
	}

	return nil
}

// badValue creates "bad value" error
func (s *Session) badValue(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}

// ApplyState represents a state of the apply state machine
type ApplyState int

// Apply states
const (
	ApplyNoCamera ApplyState = iota
	ApplyCameraPresent
	ApplyForceOrthographic
	ApplyComputeOrthoScale
	ApplyComputeFocalLength
	ApplyApplied
	ApplyCancelled
)

// String returns ApplyState name
func (st ApplyState) String() string {
	switch st {
	case ApplyNoCamera:
		return "no-camera"
	case ApplyCameraPresent:
		return "camera-present"
	case ApplyForceOrthographic:
		return "force-orthographic"
	case ApplyComputeOrthoScale:
		return "compute-ortho-scale"
	case ApplyComputeFocalLength:
		return "compute-focal-length"
	case ApplyApplied:
		return "applied"
	case ApplyCancelled:
		return "cancelled"
	}

	return fmt.Sprintf("unknown (%d)", int(st))
}

// ApplyResult reports the outcome of (*Session) Apply
type ApplyResult struct {
	State      ApplyState       // ApplyApplied or ApplyCancelled
	Settings   PrintSettings    // Resolved settings
	Camera     CameraProjection // Written camera parameter
	CameraSet  bool             // Camera was written
	CameraMade bool             // Camera was created by Apply
}

// Apply resolves settings, writes the render resolution to the
// host and, with print-to-scale enabled, sets the camera up.
//
// A missing camera is created first. If the camera object carries
// no camera data, apply is cancelled with ErrNotCamera. Cameras
// that are neither orthographic nor perspective are switched to
// orthographic.
func (s *Session) Apply(host Host) (ApplyResult, error) {
	res := ApplyResult{State: ApplyCancelled}

	ps, err := Resolve(s.settings, s.catalog)
	if err != nil {
		return res, err
	}

	s.settings = ps
	res.Settings = ps

	host.SetResolution(ps.WidthPx, ps.HeightPx)
	Log.Debug(' ', "apply: resolution %dx%d", ps.WidthPx, ps.HeightPx)

	if !ps.PrintToScale {
		res.State = ApplyApplied
		return res, nil
	}

	state := ApplyNoCamera
	cam := host.SceneCamera()
	if cam == nil {
		Log.Debug(' ', "apply: %s", state)
		cam, err = host.AddCamera()
		if err != nil {
			return res, fmt.Errorf("%w: %s", ErrNoCamera, err)
		}
		if cam == nil {
			return res, ErrNoCamera
		}
		res.CameraMade = true
	}

	state = ApplyCameraPresent
	Log.Debug(' ', "apply: %s", state)
	if !cam.IsCamera() {
		Log.Debug(' ', "apply: %s", ApplyCancelled)
		return res, ErrNotCamera
	}

	kind := cam.Projection()
	want := Orthographic
	switch kind {
	case Orthographic:
		state = ApplyComputeOrthoScale
	case Perspective:
		want = Perspective
		state = ApplyComputeFocalLength
	default:
		Log.Debug(' ', "apply: %s (was %s)", ApplyForceOrthographic, kind)
		state = ApplyComputeOrthoScale
	}

	// Camera is not modified until the computation succeeds
	Log.Debug(' ', "apply: %s", state)
	proj, err := ResolveCamera(ps.WidthCM, ps.HeightCM, host.UnitScale(),
		want, ps.ScaleFactor)
	if err != nil {
		Log.Debug(' ', "apply: %s", ApplyCancelled)
		return res, err
	}

	if kind != want {
		cam.SetProjection(want)
	}

	switch proj.Kind {
	case Orthographic:
		cam.SetOrthoScale(proj.Value)
	case Perspective:
		cam.SetFocalLength(proj.Value)
	}

	res.State = ApplyApplied
	res.Camera = proj
	res.CameraSet = true
	Log.Debug(' ', "apply: %s, %s", res.State, proj)

	return res, nil
}
