// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/viewmigrate/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	statusWidth  = 13 // Width for status text
	changeIndent = 8  // spaces to indent verbose change lines
)

// 🎯 FileOperation is one processed file as shown on the console
type FileOperation struct {
	Path    string            // File path
	Status  status.FileStatus // What happened
	Changes []string          // Manifest entries, shown when verbose
	Backup  string            // Backup path, if one was written
	Err     error             // Failure, if any
}

// 📦 RunOperation describes a run for the console header
type RunOperation struct {
	Root   string
	Files  int
	DryRun bool
	Backup bool
}

// 📊 RunTotals is what the closing summary reports
type RunTotals struct {
	Files      int
	Modified   int
	Failed     int
	ReportPath string
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	verbose   bool
	mu        sync.Mutex
	currentOp *RunOperation
}

// 🏭 New creates a new logger writing human output to console and structured
// events to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// WithVerbose makes LogFileOperation list every change under its file
func (l *Logger) WithVerbose(verbose bool) *Logger {
	l.verbose = verbose
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or one that discards
// everything when none was set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func statusLabel(s status.FileStatus) (string, rune, color.Attribute) {
	switch s {
	case status.StatusModified:
		return "modified", '✓', color.FgGreen
	case status.StatusWouldModify:
		return "would modify", '⟳', color.FgBlue
	case status.StatusFailed:
		return "error", '✗', color.FgRed
	case status.StatusRestored:
		return "restored", '↺', color.FgCyan
	default:
		return "unchanged", '-', color.FgYellow
	}
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	label, symbol, symbolColor := statusLabel(op.Status)

	var detail string
	switch {
	case op.Err != nil:
		detail = op.Err.Error()
	case op.Status == status.StatusRestored:
		detail = ""
	case len(op.Changes) > 0 && op.Backup != "":
		detail = fmt.Sprintf("%d rules, backup %s", len(op.Changes), filepath.Base(op.Backup))
	case len(op.Changes) > 0:
		detail = fmt.Sprintf("%d rules", len(op.Changes))
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(op.Path)),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, label)),
		color.New(color.Faint).Sprint(detail))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, strings.TrimRight(l.formatFileOperation(op), " "))
	if l.verbose {
		for _, change := range op.Changes {
			fmt.Fprintf(l.console, "%*s%s %s\n", changeIndent, "", color.New(color.Faint).Sprint("•"), change)
		}
	}

	event := l.zlog.Info()
	if op.Err != nil {
		event = l.zlog.Warn().Err(op.Err)
	}
	event.
		Str("file", op.Path).
		Str("status", op.Status.String()).
		Int("changes", len(op.Changes)).
		Str("backup", op.Backup).
		Msg("file operation")
}

// 📝 StartRunOperation prints the run header
func (l *Logger) StartRunOperation(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op

	mode := "rewrite"
	switch {
	case op.DryRun:
		mode = "dry run"
	case !op.Backup:
		mode = "rewrite, no backup"
	}

	fmt.Fprintf(l.console, "[migrating %s]\n",
		color.New(color.FgCyan).Sprint(op.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d files", op.Files),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("root", op.Root).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Bool("backup", op.Backup).
		Msg("starting run")
}

// 📝 EndRunOperation prints the closing summary
func (l *Logger) EndRunOperation(ctx context.Context, totals RunTotals) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	modifiedLabel := "modified"
	if l.currentOp.DryRun {
		modifiedLabel = "would be modified"
	}

	fmt.Fprintln(l.console)
	fmt.Fprintf(l.console, "%s %d processed %s %d %s %s %d failed\n",
		color.New(color.FgMagenta).Sprint("◆"),
		totals.Files,
		color.New(color.Faint).Sprint("•"),
		totals.Modified, modifiedLabel,
		color.New(color.Faint).Sprint("•"),
		totals.Failed)
	if totals.ReportPath != "" {
		fmt.Fprintf(l.console, "%s report written to %s\n",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.FgCyan).Sprint(totals.ReportPath))
	}

	l.zlog.Info().
		Str("root", l.currentOp.Root).
		Int("files", totals.Files).
		Int("modified", totals.Modified).
		Int("failed", totals.Failed).
		Str("report", totals.ReportPath).
		Msg("run complete")

	l.currentOp = nil
}

// 📝 Diff prints a line diff under its file
func (l *Logger) Diff(path, diff string) {
	if diff == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s\n", color.New(color.Bold).Sprint("---"), path)
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(l.console, color.GreenString(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(l.console, color.RedString(line))
		default:
			fmt.Fprintln(l.console, line)
		}
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("viewmigrate")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
