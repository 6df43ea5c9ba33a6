/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Logging
 */

package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var (
	logMessagePool = sync.Pool{New: func() interface{} { return &LogMessage{} }}
	logBufferPool  = sync.Pool{New: func() interface{} { return &bytes.Buffer{} }}
)

// LogLevel enumerates possible log levels. Levels are bits, so
// a Logger may accept any combination of them
type LogLevel int

const (
	LogError LogLevel = 1 << iota
	LogInfo
	LogDebug
	LogTraceIPP

	LogAll = LogError | LogInfo | LogDebug | LogTraceIPP
)

// Standard loggers
var (
	// Console writes to stdout
	Console = NewConsoleLogger()

	// Log is the main log. It writes nowhere, until ToFile is
	// called, and copies everything to Console
	Log = NewLogger().Cc(Console)
)

// Logger implements logging facilities
type Logger struct {
	lock       sync.Mutex   // Write lock
	levels     LogLevel     // Accepted levels
	out        io.Writer    // Output, nil if none
	file       *os.File     // Output file, if logging to file
	path       string       // Path to log file
	maxSize    int64        // Rotate file when it grows above
	maxBackups uint         // Count of preserved backups
	time       bytes.Buffer // Time prefix buffer
	console    bool         // true for console logger
	color      bool         // Use ANSI colors
	cc         *Logger      // Carbon copy, if any
}

// NewLogger creates a new logger that writes nowhere
func NewLogger() *Logger {
	return &Logger{levels: LogError | LogInfo}
}

// NewConsoleLogger creates new console logger
func NewConsoleLogger() *Logger {
	return &Logger{
		levels:  LogError | LogInfo,
		out:     os.Stdout,
		console: true,
	}
}

// SetLevels sets the mask of accepted levels
func (l *Logger) SetLevels(levels LogLevel) *Logger {
	l.lock.Lock()
	l.levels = levels
	l.lock.Unlock()
	return l
}

// Cc makes l to copy all messages to another logger
func (l *Logger) Cc(to *Logger) *Logger {
	l.cc = to
	return l
}

// ToNowhere redirects log to nowhere
func (l *Logger) ToNowhere() *Logger {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.closeFile()
	l.out = nil
	l.path = ""
	return l
}

// ToColorConsole enables ANSI colors, if console logger writes
// to a terminal
func (l *Logger) ToColorConsole() *Logger {
	l.lock.Lock()
	defer l.lock.Unlock()

	if f, ok := l.out.(*os.File); ok && l.console {
		l.color = term.IsTerminal(int(f.Fd()))
	}
	return l
}

// ToFile redirects log to the file. The file is opened on
// demand and rotated when grows above maxSize bytes
func (l *Logger) ToFile(path string, maxSize int64, maxBackups uint) *Logger {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.closeFile()
	l.out = nil
	l.console = false
	l.color = false
	l.path = path
	l.maxSize = maxSize
	l.maxBackups = maxBackups
	return l
}

// Close the logger
func (l *Logger) Close() {
	l.lock.Lock()
	l.closeFile()
	l.lock.Unlock()
}

// closeFile closes the log file, if opened. Must be called
// under the lock
func (l *Logger) closeFile() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
		l.out = nil
	}
}

// Begin new log message
func (l *Logger) Begin() *LogMessage {
	msg := logMessagePool.Get().(*LogMessage)
	msg.logger = l
	return msg
}

// Debug writes a LogDebug message
func (l *Logger) Debug(prefix byte, format string, args ...interface{}) {
	l.Begin().Debug(prefix, format, args...).Commit()
}

// Info writes a LogInfo message
func (l *Logger) Info(prefix byte, format string, args ...interface{}) {
	l.Begin().Info(prefix, format, args...).Commit()
}

// Error writes a LogError message
func (l *Logger) Error(prefix byte, format string, args ...interface{}) {
	l.Begin().Error(prefix, format, args...).Commit()
}

// Check logs an error and exits, if err is not nil
func (l *Logger) Check(err error) {
	if err != nil {
		l.Exit(0, "%s", err)
	}
}

// Exit writes a LogError message and terminates the program
func (l *Logger) Exit(prefix byte, format string, args ...interface{}) {
	l.Error(prefix, format, args...)
	l.Close()
	os.Exit(1)
}

// Format a time prefix
func (l *Logger) fmtTime() {
	l.time.Reset()
	if !l.console {
		now := time.Now()

		year, month, day := now.Date()
		fmt.Fprintf(&l.time, "%2.2d-%2.2d-%4.4d ", day, month, year)

		hour, min, sec := now.Clock()
		fmt.Fprintf(&l.time, "%2.2d:%2.2d:%2.2d", hour, min, sec)

		l.time.WriteString(": ")
	}
}

// open opens the log file on demand. Must be called under the lock
func (l *Logger) open() {
	if l.out != nil || l.path == "" {
		return
	}

	os.MkdirAll(filepath.Dir(l.path), 0755)
	file, err := os.OpenFile(l.path,
		os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err == nil {
		l.file = file
		l.out = file
	}
}

// Handle log rotation
func (l *Logger) rotate() {
	// Do we need to rotate?
	if l.file == nil || l.maxSize <= 0 {
		return
	}

	stat, err := l.file.Stat()
	if err != nil || stat.Size() <= l.maxSize {
		return
	}

	// Perform rotation
	prevpath := ""
	for i := int(l.maxBackups); i >= 0; i-- {
		nextpath := l.path
		if i > 0 {
			nextpath += fmt.Sprintf(".%d.gz", i-1)
		}

		switch i {
		case int(l.maxBackups):
			os.Remove(nextpath)
		case 0:
			err := l.gzip(nextpath, prevpath)
			if err == nil {
				l.file.Truncate(0)
			}
		default:
			os.Rename(nextpath, prevpath)
		}

		prevpath = nextpath
	}
}

// gzip the log file
func (l *Logger) gzip(ipath, opath string) error {
	// Open input file
	ifile, err := os.Open(ipath)
	if err != nil {
		return err
	}

	defer ifile.Close()

	// Open output file
	ofile, err := os.OpenFile(opath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	// gzip ifile->ofile
	w := gzip.NewWriter(ofile)
	_, err = io.Copy(w, ifile)
	err2 := w.Close()
	err3 := ofile.Close()

	switch {
	case err == nil && err2 != nil:
		err = err2
	case err == nil && err3 != nil:
		err = err3
	}

	// Cleanup and exit
	if err != nil {
		os.Remove(opath)
	}

	return err
}

// write sends lines, accepted by logger levels, to the output
func (l *Logger) write(lines []logLine) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.open()
	if l.out == nil {
		return
	}

	l.rotate()
	l.fmtTime()

	for _, line := range lines {
		if line.level&l.levels == 0 {
			continue
		}

		text := line.buf.Bytes()
		if l.color {
			beg := logColor(line.level)
			l.out.Write([]byte(beg))
			l.out.Write(bytes.TrimSuffix(text, []byte("\n")))
			l.out.Write([]byte("\033[0m\n"))
		} else {
			l.out.Write(l.time.Bytes())
			l.out.Write(text)
		}
	}
}

// logColor returns ANSI color sequence for the level
func logColor(level LogLevel) string {
	switch {
	case level&LogError != 0:
		return "\033[31;1m" // Red
	case level&LogInfo != 0:
		return "\033[32;1m" // Green
	case level&LogDebug != 0:
		return "\033[37;1m" // White
	}
	return "\033[37m" // Gray
}

// logLine is a single line of the LogMessage
type logLine struct {
	level LogLevel
	buf   *bytes.Buffer
}

// LogMessage represents a single (possible multi line) log
// message, which will appear in the output log atomically,
// and won't be interrupted in the middle by other log activity
type LogMessage struct {
	logger *Logger   // Underlying logger
	lines  []logLine // One buffer per line
}

// add formats a next line of log message, with level and prefix char
func (msg *LogMessage) add(level LogLevel, prefix byte,
	format string, args ...interface{}) *LogMessage {

	buf := logBufAlloc()
	buf.Write([]byte{prefix, ' '})
	fmt.Fprintf(buf, format, args...)
	if !logBufTerminated(buf) {
		buf.WriteByte('\n')
	}
	msg.lines = append(msg.lines, logLine{level, buf})
	return msg
}

// Debug writes a LogDebug message
func (msg *LogMessage) Debug(prefix byte, format string, args ...interface{}) *LogMessage {
	return msg.add(LogDebug, prefix, format, args...)
}

// Info writes a LogInfo message
func (msg *LogMessage) Info(prefix byte, format string, args ...interface{}) *LogMessage {
	return msg.add(LogInfo, prefix, format, args...)
}

// Error writes a LogError message
func (msg *LogMessage) Error(prefix byte, format string, args ...interface{}) *LogMessage {
	return msg.add(LogError, prefix, format, args...)
}

// Text writes multi-line text, line by line, at the given level
func (msg *LogMessage) Text(level LogLevel, prefix byte, text string) *LogMessage {
	text = strings.TrimRight(text, "\n")
	for _, line := range strings.Split(text, "\n") {
		msg.add(level, prefix, "%s", line)
	}
	return msg
}

// Commit message to the log
func (msg *LogMessage) Commit() {
	// Don't forget to free the message
	defer msg.free()

	// Ignore empty messages
	if len(msg.lines) == 0 {
		return
	}

	for l := msg.logger; l != nil; l = l.cc {
		l.write(msg.lines)
	}
}

// Reject the message
func (msg *LogMessage) Reject() {
	msg.free()
}

// Return message to the logMessagePool
func (msg *LogMessage) free() {
	for _, l := range msg.lines {
		logBufFree(l.buf)
	}

	// Reset the message and put it to the pool
	if len(msg.lines) < 16 {
		msg.lines = msg.lines[:0] // Keep memory, reset content
	} else {
		msg.lines = nil
	}

	msg.logger = nil

	// Put the message
	logMessagePool.Put(msg)
}

// Check if line buffer is '\n'-terminated
func logBufTerminated(buf *bytes.Buffer) bool {
	if l := buf.Len(); l > 0 {
		return buf.Bytes()[l-1] == '\n'
	}
	return false
}

// Allocate a buffer
func logBufAlloc() *bytes.Buffer {
	return logBufferPool.Get().(*bytes.Buffer)
}

// Free a buffer
func logBufFree(buf *bytes.Buffer) {
	if buf.Cap() <= 256 {
		buf.Reset()
		logBufferPool.Put(buf)
	}
}
