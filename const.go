/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Common constants
 */

package main

import (
	"time"
)

const (
	// DefaultPrinterTimeout specifies how much time to wait for
	// the printer response or DNS-SD discovery
	DefaultPrinterTimeout = 5 * time.Second

	// IppRequestingUser is the requesting-user-name of IPP
	// requests
	IppRequestingUser = "print2scale"

	// IppDefaultPort is the default port of ipp:// and ipps://
	// printer URIs
	IppDefaultPort = "631"
)
