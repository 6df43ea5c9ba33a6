/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Program configuration
 */

package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Configuration represents a program configuration
type Configuration struct {
	Defaults          []ConfSetting  // [defaults], in file order
	Presets           []PaperPreset  // Additional paper presets
	UnitScale         float64        // Scene unit scale
	Projection        Projection     // Scene camera projection
	Camera            CameraPresence // Scene camera presence
	PrinterURI        string         // Printer to validate against
	PrinterTimeout    time.Duration  // Printer and discovery timeout
	Discovery         bool           // Enable DNS-SD printer discovery
	LogMain           LogLevel       // Main log LogLevel mask
	LogConsole        LogLevel       // Console LogLevel mask
	ColorConsole      bool           // Enable ANSI colors on console
	LogFile           string         // Main log file, "" if none
	LogMaxFileSize    int64          // Maximum log file size
	LogMaxBackupFiles uint           // Count of files preserved during rotation
}

// ConfSetting is a single setting from the [defaults] section.
// Settings are applied by name, see (*Session) Set
type ConfSetting struct {
	Origin string // file:section.key
	Name   string // Setting name
	Value  string // Setting value
}

// Conf contains a global instance of program configuration
var Conf = DefaultConfiguration()

// DefaultConfiguration returns configuration with default values
func DefaultConfiguration() Configuration {
	return Configuration{
		UnitScale:         1.0,
		Projection:        Orthographic,
		Camera:            CameraPresent,
		PrinterTimeout:    DefaultPrinterTimeout,
		Discovery:         true,
		LogMain:           LogError | LogInfo,
		LogConsole:        LogError | LogInfo,
		ColorConsole:      true,
		LogMaxFileSize:    256 * 1024,
		LogMaxBackupFiles: 5,
	}
}

// ConfFiles returns the default list of configuration files,
// in the loading order
func ConfFiles() []string {
	files := []string{filepath.Join(PathConfDir, ConfFileName)}

	if exepath, err := os.Executable(); err == nil {
		files = append(files, filepath.Join(filepath.Dir(exepath), ConfFileName))
	}

	if user := PathUserConfFile(); user != "" {
		files = append(files, user)
	}

	return files
}

// ConfLoad loads the program configuration from files. Missing
// files are silently skipped; later files override earlier ones
func ConfLoad(files ...string) error {
	for _, file := range files {
		err := confLoadInternal(&Conf, file)
		if err != nil {
			return fmt.Errorf("conf: %w", err)
		}
	}

	return nil
}

// confKey is a single key of the configuration file
type confKey struct {
	File, Section string // Origin
	Name, Value   string // Key and value
}

// Origin returns key origin, for error messages
func (rec confKey) Origin() string {
	return fmt.Sprintf("%s: %s.%s", rec.File, rec.Section, rec.Name)
}

// Create "bad value" error
func confBadValue(rec confKey, format string, args ...interface{}) error {
	return fmt.Errorf(rec.Origin()+": "+format, args...)
}

// Load the configuration file into conf -- internal version
func confLoadInternal(conf *Configuration, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	inifile, err := ini.Load(path)
	if err != nil {
		return err
	}

	for _, section := range inifile.Sections() {
		for _, key := range section.Keys() {
			rec := confKey{
				File:    path,
				Section: section.Name(),
				Name:    key.Name(),
				Value:   strings.TrimSpace(key.String()),
			}

			err = confLoadKey(conf, rec)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// confLoadKey loads a single configuration key
func confLoadKey(conf *Configuration, rec confKey) error {
	switch rec.Section {
	case "defaults":
		conf.Defaults = append(conf.Defaults, ConfSetting{
			Origin: rec.Origin(),
			Name:   rec.Name,
			Value:  rec.Value,
		})

	case "presets":
		p, err := ParsePresetID(rec.Name)
		if err != nil {
			return confBadValue(rec, "%s", err)
		}
		if rec.Value != "" {
			p.Label = rec.Value
		}
		conf.Presets = append(conf.Presets, p)

	case "scene":
		switch rec.Name {
		case "unit-scale":
			return confLoadPositiveKey(&conf.UnitScale, rec)
		case "projection":
			p, err := ParseProjection(rec.Value)
			if err != nil {
				return confBadValue(rec, "%s", err)
			}
			conf.Projection = p
		case "camera":
			c, err := ParseCameraPresence(rec.Value)
			if err != nil {
				return confBadValue(rec, "%s", err)
			}
			conf.Camera = c
		}

	case "printer":
		switch rec.Name {
		case "uri":
			if rec.Value != "" {
				if _, err := ippHTTPURL(rec.Value); err != nil {
					return confBadValue(rec, "%s", err)
				}
			}
			conf.PrinterURI = rec.Value
		case "timeout":
			return confLoadDurationKey(&conf.PrinterTimeout, rec)
		case "discovery":
			return confLoadBinaryKey(&conf.Discovery, rec, "disable", "enable")
		}

	case "logging":
		switch rec.Name {
		case "main-log":
			return confLoadLogLevelKey(&conf.LogMain, rec)
		case "console-log":
			return confLoadLogLevelKey(&conf.LogConsole, rec)
		case "console-color":
			return confLoadBinaryKey(&conf.ColorConsole, rec, "disable", "enable")
		case "log-file":
			conf.LogFile = rec.Value
		case "max-file-size":
			return confLoadSizeKey(&conf.LogMaxFileSize, rec)
		case "max-backup-files":
			return confLoadUintKey(&conf.LogMaxBackupFiles, rec)
		}
	}

	return nil
}

// Load the binary key
func confLoadBinaryKey(out *bool, rec confKey, vFalse, vTrue string) error {
	switch rec.Value {
	case vFalse:
		*out = false
		return nil
	case vTrue:
		*out = true
		return nil
	default:
		return confBadValue(rec, "must be %s or %s", vFalse, vTrue)
	}
}

// Load LogLevel key
func confLoadLogLevelKey(out *LogLevel, rec confKey) error {
	var mask LogLevel
	for _, s := range strings.Split(rec.Value, ",") {
		s = strings.TrimSpace(s)
		switch s {
		case "":
		case "error":
			mask |= LogError
		case "info":
			mask |= LogInfo | LogError
		case "debug":
			mask |= LogDebug | LogInfo | LogError
		case "trace-ipp":
			mask |= LogTraceIPP | LogDebug | LogInfo | LogError
		case "all":
			mask |= LogAll
		default:
			return confBadValue(rec, "invalid log level %q", s)
		}
	}

	*out = mask
	return nil
}

// Load size key
func confLoadSizeKey(out *int64, rec confKey) error {
	units := uint64(1)
	value := rec.Value

	if l := len(value); l > 0 {
		switch value[l-1] {
		case 'k', 'K':
			units = 1024
		case 'm', 'M':
			units = 1024 * 1024
		}

		if units != 1 {
			value = value[:l-1]
		}
	}

	sz, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return confBadValue(rec, "%q: invalid size", rec.Value)
	}

	if sz > uint64(math.MaxInt64/units) {
		return confBadValue(rec, "size too large")
	}

	*out = int64(sz * units)
	return nil
}

// Load unsigned integer key
func confLoadUintKey(out *uint, rec confKey) error {
	num, err := strconv.ParseUint(rec.Value, 10, 0)
	if err != nil {
		return confBadValue(rec, "%q: invalid number", rec.Value)
	}

	*out = uint(num)
	return nil
}

// Load positive float key
func confLoadPositiveKey(out *float64, rec confKey) error {
	num, err := strconv.ParseFloat(rec.Value, 64)
	if err != nil {
		return confBadValue(rec, "%q: invalid number", rec.Value)
	}

	if !(num > 0) || math.IsInf(num, 0) {
		return confBadValue(rec, "must be greater than zero")
	}

	*out = num
	return nil
}

// Load duration key
func confLoadDurationKey(out *time.Duration, rec confKey) error {
	d, err := time.ParseDuration(rec.Value)
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		return confBadValue(rec, "%q: %s", rec.Value, err)
	}

	*out = d
	return nil
}
