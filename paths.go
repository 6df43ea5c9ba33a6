/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Common paths
 */

package main

import (
	"os"
	"path/filepath"
)

const (
	// PathConfDir defines path to system configuration directory
	PathConfDir = "/etc/print2scale"

	// ConfFileName defines a name of print2scale configuration file
	ConfFileName = "print2scale.conf"
)

// PathUserConfFile returns path to per-user configuration file,
// or "" if user configuration directory is unknown
func PathUserConfFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "print2scale", ConfFileName)
}
