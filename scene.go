/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Host scene model
 */

package main

import (
	"fmt"
	"strings"
)

// Host is the application that owns the render settings and the
// scene camera. Session.Apply writes its results through Host
type Host interface {
	// SetResolution sets the render resolution, in pixels
	SetResolution(w, h int)

	// UnitScale returns the scene unit scale (scene units to meters)
	UnitScale() float64

	// SceneCamera returns the active camera object, nil if none
	SceneCamera() HostCamera

	// AddCamera creates a new camera object and makes it active
	AddCamera() (HostCamera, error)
}

// HostCamera is the scene camera object
type HostCamera interface {
	IsCamera() bool // The object carries camera data
	Projection() Projection
	SetProjection(Projection)
	SetOrthoScale(float64)
	SetFocalLength(float64)
}

// CameraPresence tells what the scene camera slot holds
type CameraPresence int

// Camera slot states:
//
//	CameraPresent - a camera object
//	CameraAbsent  - nothing, Apply will add a camera
//	CameraEmpty   - an object without camera data
const (
	CameraPresent CameraPresence = iota
	CameraAbsent
	CameraEmpty
)

// String returns CameraPresence name
func (c CameraPresence) String() string {
	switch c {
	case CameraPresent:
		return "present"
	case CameraAbsent:
		return "absent"
	case CameraEmpty:
		return "empty"
	}

	return fmt.Sprintf("unknown (%d)", int(c))
}

// ParseCameraPresence parses CameraPresence name
func ParseCameraPresence(s string) (CameraPresence, error) {
	switch strings.ToLower(s) {
	case "present":
		return CameraPresent, nil
	case "absent":
		return CameraAbsent, nil
	case "empty":
		return CameraEmpty, nil
	}
	return 0, fmt.Errorf("%q: must be present, absent or empty", s)
}

// Scene is the in-memory Host used by the command line tool.
// It mirrors the values an application would receive
type Scene struct {
	ResolutionX int     // Render width
	ResolutionY int     // Render height
	Units       float64 // Unit scale
	Camera      *Camera // Active camera, nil if none

	// Projection of cameras created by AddCamera
	NewCameraProjection Projection
}

// Camera is the Scene camera object
type Camera struct {
	Name        string     // Object name
	Data        bool       // Object carries camera data
	Type        Projection // Projection kind
	OrthoScale  float64    // Orthographic scale
	FocalLength float64    // Focal length
}

// NewScene creates a Scene
func NewScene(unitScale float64, presence CameraPresence, proj Projection) *Scene {
	scene := &Scene{
		Units:               unitScale,
		NewCameraProjection: proj,
	}

	switch presence {
	case CameraPresent:
		scene.Camera = &Camera{Name: "Camera", Data: true, Type: proj}
	case CameraEmpty:
		scene.Camera = &Camera{Name: "Empty"}
	}

	return scene
}

// SetResolution implements Host interface
func (scene *Scene) SetResolution(w, h int) {
	scene.ResolutionX, scene.ResolutionY = w, h
}

// UnitScale implements Host interface
func (scene *Scene) UnitScale() float64 {
	return scene.Units
}

// SceneCamera implements Host interface
func (scene *Scene) SceneCamera() HostCamera {
	if scene.Camera == nil {
		return nil
	}
	return scene.Camera
}

// AddCamera implements Host interface
func (scene *Scene) AddCamera() (HostCamera, error) {
	scene.Camera = &Camera{
		Name: "Camera",
		Data: true,
		Type: scene.NewCameraProjection,
	}
	return scene.Camera, nil
}

// IsCamera implements HostCamera interface
func (cam *Camera) IsCamera() bool {
	return cam.Data
}

// Projection implements HostCamera interface
func (cam *Camera) Projection() Projection {
	return cam.Type
}

// SetProjection implements HostCamera interface
func (cam *Camera) SetProjection(p Projection) {
	cam.Type = p
}

// SetOrthoScale implements HostCamera interface
func (cam *Camera) SetOrthoScale(v float64) {
	cam.OrthoScale = v
}

// SetFocalLength implements HostCamera interface
func (cam *Camera) SetFocalLength(v float64) {
	cam.FocalLength = v
}
