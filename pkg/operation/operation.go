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

package operation

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/pkg/discover"
	"github.com/walteh/viewmigrate/pkg/report"
	"github.com/walteh/viewmigrate/pkg/rules"
	"github.com/walteh/viewmigrate/pkg/status"
	"github.com/walteh/viewmigrate/pkg/text"
)

// 🔧 Options configures a pipeline run
type Options struct {
	// Root is the directory whose files are rewritten
	Root string
	// Patterns select files inside Root; discover.DefaultPatterns when empty
	Patterns []string
	// Backup writes <name>.exasol_backup before a file is overwritten
	Backup bool
	// DryRun computes and reports changes without writing any file
	DryRun bool
	// Workers bounds concurrent file processing; 1 processes files in order
	Workers int
	// FileTimeout bounds the work on a single file; zero disables it
	FileTimeout time.Duration
	// ReportPath is where the report is written; empty skips the report
	ReportPath string
	// Rules defaults to rules.Default()
	Rules *rules.Set
	// Now defaults to time.Now
	Now func() time.Time

	// Files defaults to a status.Manager rooted at Root
	Files status.FileManager
	// Reporter defaults to Files when it also reports status
	Reporter status.StatusReporter
	// OnDiscover, if set, is called with the discovered paths before any file
	// is processed
	OnDiscover func(ctx context.Context, paths []string)
	// OnFile, if set, is called once per file as soon as it is done. It may be
	// called from several goroutines at once.
	OnFile func(ctx context.Context, o Outcome)
}

// 📊 Summary is the result of a run
type Summary struct {
	RunID      string
	Outcomes   []Outcome // in discovery order
	Records    []report.Record
	Totals     report.Totals
	ReportPath string
	StartedAt  time.Time
	Duration   time.Duration
}

// 🎮 Pipeline rewrites every matching file under a root directory
type Pipeline struct {
	opts        Options
	transformer *text.Transformer
	files       status.FileManager
	reporter    status.StatusReporter
	runner      runner
}

// 🏭 New validates opts and fills in defaults
func New(opts Options) (*Pipeline, error) {
	if opts.Root == "" {
		return nil, errors.New("root directory is required")
	}
	if opts.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.FileTimeout < 0 {
		return nil, errors.Errorf("file timeout must not be negative, got %s", opts.FileTimeout)
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = discover.DefaultPatterns
	}
	if opts.Rules == nil {
		opts.Rules = rules.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	files := opts.Files
	if files == nil {
		files = status.New(opts.Root)
	}

	reporter := opts.Reporter
	if reporter == nil {
		if r, ok := files.(status.StatusReporter); ok {
			reporter = r
		} else {
			reporter = status.New(opts.Root)
		}
	}

	return &Pipeline{
		opts:        opts,
		transformer: text.NewTransformer(opts.Rules),
		files:       files,
		reporter:    reporter,
		runner:      newRunner(opts.Workers),
	}, nil
}

// 🏃 Run discovers files, rewrites each one and writes the report.
//
// Only an unreadable root or a report that cannot be written fail the run.
// Every other problem is isolated to its file and shows up in that file's
// outcome.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	startedAt := p.opts.Now()

	paths, err := discover.Find(ctx, p.opts.Root, p.opts.Patterns)
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	logger.Info().
		Str("root", p.opts.Root).
		Int("files", len(paths)).
		Bool("dry_run", p.opts.DryRun).
		Bool("backup", p.opts.Backup).
		Int("rules", p.opts.Rules.Len()).
		Msg("starting run")

	if p.opts.OnDiscover != nil {
		p.opts.OnDiscover(ctx, paths)
	}

	outcomes := make([]Outcome, len(paths))
	var done atomic.Int64

	p.reporter.StartOperation(ctx, len(paths))
	err = p.runner.run(ctx, len(paths), func(ctx context.Context, i int) {
		outcomes[i] = p.processFile(ctx, paths[i])

		p.reporter.TrackFile(ctx, outcomes[i].info())
		p.reporter.UpdateProgress(ctx, int(done.Add(1)))
		if p.opts.OnFile != nil {
			p.opts.OnFile(ctx, outcomes[i])
		}
	})
	p.reporter.FinishOperation(ctx)
	if err != nil {
		return nil, errors.Errorf("processing files: %w", err)
	}

	// one timestamp for the whole run
	processedAt := p.opts.Now()
	records := make([]report.Record, len(outcomes))
	for i, o := range outcomes {
		records[i] = o.Record(processedAt)
	}

	summary := &Summary{
		RunID:     runID,
		Outcomes:  outcomes,
		Records:   records,
		Totals:    report.Tally(records),
		StartedAt: startedAt,
		Duration:  p.opts.Now().Sub(startedAt),
	}

	if p.opts.ReportPath != "" {
		meta := report.Meta{
			RunID:       runID,
			Root:        p.opts.Root,
			Patterns:    p.opts.Patterns,
			DryRun:      p.opts.DryRun,
			Backup:      p.opts.Backup,
			GeneratedAt: processedAt,
		}
		if err := report.WriteFile(ctx, p.opts.ReportPath, meta, records); err != nil {
			return summary, errors.Errorf("writing report %s: %w", p.opts.ReportPath, err)
		}
		summary.ReportPath = p.opts.ReportPath
	}

	logger.Info().
		Int("files", summary.Totals.Files).
		Int("modified", summary.Totals.Modified).
		Int("failed", summary.Totals.Failed).
		Str("report", summary.ReportPath).
		Msg("run complete")

	return summary, nil
}

// 📄 processFile runs read, transform, backup and write for one file. It
// never returns an error: failures are recorded on the outcome.
func (p *Pipeline) processFile(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path, DryRun: p.opts.DryRun}

	if p.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.FileTimeout)
		defer cancel()
	}

	logger := zerolog.Ctx(ctx).With().Str("file", filepath.Base(path)).Logger()
	ctx = logger.WithContext(ctx)

	fail := func(err error) Outcome {
		logger.Warn().Err(err).Msg("file failed")
		out.Status = status.StatusFailed
		out.Err = err
		out.Manifest = nil
		return out
	}

	if err := ctx.Err(); err != nil {
		return fail(errors.Errorf("not started: %w", err))
	}

	if size, err := p.files.FileSize(ctx, path); err == nil {
		out.Size = size
	}

	content, err := p.files.ReadFile(ctx, path)
	if err != nil {
		return fail(err)
	}
	out.Size = int64(len(content))

	result, err := p.transformer.TransformBytes(ctx, content)
	if err != nil {
		return fail(errors.Errorf("transforming: %w", err))
	}
	out.Result = result
	out.Manifest = result.Manifest

	if !result.WasModified() {
		out.Status = status.StatusUnchanged
		logger.Debug().Msg("no changes needed")
		return out
	}

	if p.opts.DryRun {
		out.Status = status.StatusWouldModify
		logger.Debug().Int("changes", len(result.Manifest)).Msg("would modify")
		return out
	}

	// last point at which the file can be left untouched
	if err := ctx.Err(); err != nil {
		return fail(errors.Errorf("abandoned before writing: %w", err))
	}

	if p.opts.Backup {
		backup, err := p.files.BackupFile(ctx, path, content)
		if err != nil {
			return fail(errors.Errorf("backing up: %w", err))
		}
		out.Backup = backup
	}

	if err := p.files.WriteFileAtomic(ctx, path, []byte(result.Modified)); err != nil {
		return fail(errors.Errorf("writing: %w", err))
	}

	out.Status = status.StatusModified
	logger.Debug().
		Int("changes", len(result.Manifest)).
		Int("occurrences", result.Manifest.Occurrences()).
		Str("backup", out.Backup).
		Msg("file rewritten")
	return out
}
