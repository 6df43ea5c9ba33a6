/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Logger tests
 */

package main

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Test level filtering
func TestLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	l := &Logger{out: buf, console: true, levels: LogError | LogInfo}

	l.Begin().
		Info(' ', "info").
		Debug(' ', "debug").
		Error('!', "error %d", 1).
		Commit()

	expected := "  info\n! error 1\n"
	if buf.String() != expected {
		t.Errorf("output %q, must be %q", buf.String(), expected)
	}

	buf.Reset()
	l.SetLevels(LogAll)
	l.Debug(' ', "debug")
	if buf.String() != "  debug\n" {
		t.Errorf("output %q after SetLevels(LogAll)", buf.String())
	}

	buf.Reset()
	l.Begin().Info(' ', "rejected").Reject()
	if buf.Len() != 0 {
		t.Errorf("rejected message written: %q", buf.String())
	}
}

// Test multi-line text and carbon copies
func TestLoggerCc(t *testing.T) {
	mainBuf := &bytes.Buffer{}
	ccBuf := &bytes.Buffer{}

	cc := &Logger{out: ccBuf, console: true, levels: LogError}
	l := (&Logger{out: mainBuf, console: true, levels: LogAll}).Cc(cc)

	l.Begin().
		Text(LogInfo, '>', "line 1\nline 2\n").
		Error('!', "failed").
		Commit()

	expected := "> line 1\n> line 2\n! failed\n"
	if mainBuf.String() != expected {
		t.Errorf("main output %q, must be %q", mainBuf.String(), expected)
	}

	if ccBuf.String() != "! failed\n" {
		t.Errorf("cc output %q, must be %q", ccBuf.String(), "! failed\n")
	}
}

// Test log file rotation
func TestLoggerRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log", "main.log")

	l := NewLogger().ToFile(path, 10, 2)
	defer l.Close()

	l.Info(' ', "first message")
	l.Info(' ', "second message")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("%s", err)
	}

	if !strings.Contains(string(data), "second message") ||
		strings.Contains(string(data), "first message") {
		t.Errorf("log file content after rotation: %q", data)
	}

	file, err := os.Open(path + ".0.gz")
	if err != nil {
		t.Fatalf("%s", err)
	}
	defer file.Close()

	r, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("%s", err)
	}

	backup, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("%s", err)
	}

	if !strings.Contains(string(backup), "first message") {
		t.Errorf("backup content: %q", backup)
	}

	// ToNowhere stops file output
	l.ToNowhere()
	l.Info(' ', "third message")
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "third message") {
		t.Errorf("message written after ToNowhere")
	}
}
