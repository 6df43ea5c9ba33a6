/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Common errors
 */

package main

import (
	"errors"
)

// Error values for print2scale
var (
	ErrUnknownPreset         = errors.New("Unknown paper preset")
	ErrInvalidProjection     = errors.New("Unsupported camera projection")
	ErrDegenerateScaleFactor = errors.New("Scale factor must be greater than zero")
	ErrDegenerateUnitScale   = errors.New("Unit scale must be greater than zero")
	ErrNoCamera              = errors.New("No camera available")
	ErrNotCamera             = errors.New("Scene camera is not a camera object")
	ErrOutOfRange            = errors.New("Value out of range")
	ErrDerivedField          = errors.New("Field is derived in this mode")
	ErrUnknownField          = errors.New("Unknown setting")
	ErrIppRejected           = errors.New("Printer rejected the job ticket")
	ErrNoPrinters            = errors.New("No IPP printers found")
)
