/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package obslog is the ambient structured-logging layer (§7: teardown
// errors are logged and swallowed, not propagated): a small Logger
// interface, a console implementation backed by log/slog, and a rotating
// file sink via lumberjack, wired behind a singleton initialized once.
package obslog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
)

// Logger is the minimal structured-logging surface used across the
// runtime: provider teardown errors, construction failures, and provctl
// output.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// slogLogger adapts a *slog.Logger to Logger.
type slogLogger struct {
	inner *slog.Logger
}

func (l *slogLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// NewConsole builds a Logger writing human-readable text to stderr.
func NewConsole(level slog.Level) Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &slogLogger{inner: slog.New(handler)}
}

// NewFile builds a Logger writing JSON lines to a size/age-rotated file.
func NewFile(level slog.Level, filePath string, maxSizeMB, maxBackups, maxAgeDays int) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return &slogLogger{inner: slog.New(handler)}
}

var (
	once     sync.Once
	instance Logger
)

// Default lazily initializes and returns the process-wide console logger.
func Default() Logger {
	once.Do(func() {
		instance = NewConsole(slog.LevelInfo)
	})
	return instance
}

// SwallowTeardownError logs a non-nil teardown error and discards it,
// realizing §7's "teardown must not abort" rule.
func SwallowTeardownError(log Logger, providerName string, err error) {
	if err == nil {
		return
	}
	log.Error(fmt.Sprintf("provider teardown failed: %s", providerName), "error", err)
}
