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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/pkg/discover"
	"github.com/walteh/viewmigrate/pkg/status"
)

// ⏪ RestoreOptions configures Restore
type RestoreOptions struct {
	Root     string
	Patterns []string
	DryRun   bool

	Files    status.FileManager
	Reporter status.StatusReporter
	OnFile   func(ctx context.Context, o Outcome)
}

// ⏪ Restore puts every backup under root back in place of the file it was
// taken from. Only files matching patterns are considered. A file without a
// backup is skipped; a failed restore is recorded and the others continue.
func Restore(ctx context.Context, opts RestoreOptions) ([]Outcome, error) {
	if opts.Root == "" {
		return nil, errors.New("root directory is required")
	}
	if opts.Files == nil {
		mgr := status.New(opts.Root)
		opts.Files = mgr
		if opts.Reporter == nil {
			opts.Reporter = mgr
		}
	}
	if opts.Reporter == nil {
		opts.Reporter = status.New(opts.Root)
	}

	paths, err := backedUpFiles(ctx, opts.Root, opts.Patterns)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	outcomes := make([]Outcome, 0, len(paths))

	opts.Reporter.StartOperation(ctx, len(paths))
	defer opts.Reporter.FinishOperation(ctx)

	for i, path := range paths {
		out := Outcome{Path: path, Status: status.StatusRestored, DryRun: opts.DryRun, Backup: status.BackupPath(path)}

		if !opts.DryRun {
			if err := opts.Files.RestoreFile(ctx, path); err != nil {
				logger.Warn().Err(err).Str("file", path).Msg("restore failed")
				out.Status = status.StatusFailed
				out.Err = err
			}
		}

		outcomes = append(outcomes, out)
		opts.Reporter.TrackFile(ctx, out.info())
		opts.Reporter.UpdateProgress(ctx, i+1)
		if opts.OnFile != nil {
			opts.OnFile(ctx, out)
		}
	}

	return outcomes, nil
}

// backedUpFiles lists the files under root that match patterns and have a
// backup next to them. A backup whose original was deleted is still listed.
func backedUpFiles(ctx context.Context, root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = discover.DefaultPatterns
	}

	backupPatterns := make([]string, len(patterns))
	for i, p := range patterns {
		backupPatterns[i] = p + status.BackupSuffix
	}

	backups, err := discover.Find(ctx, root, backupPatterns)
	if err != nil {
		return nil, errors.Errorf("discovering backups: %w", err)
	}

	paths := make([]string, 0, len(backups))
	for _, b := range backups {
		original := strings.TrimSuffix(b, status.BackupSuffix)
		if info, err := os.Stat(original); err == nil && info.IsDir() {
			continue
		}
		paths = append(paths, filepath.Clean(original))
	}
	slices.Sort(paths)
	return paths, nil
}
