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

package discover

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ DefaultPatterns are the file names treated as view definitions when the
// caller does not supply any
var DefaultPatterns = []string{
	"*.sql",
	"*.view",
	"*_view.sql",
	"view_*.sql",
	"*.ddl",
}

// 🔍 Find returns the regular files directly inside root whose names match
// any of patterns, sorted by path. Subdirectories are never descended into
// and hidden files are skipped unless a pattern names them explicitly.
// A file matched by several patterns, or reachable through several links,
// is returned once.
//
// An unreadable root is an error. Patterns that match nothing are not.
func Find(ctx context.Context, root string, patterns []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("checking root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Errorf("reading root directory: %w", err)
	}

	matchedBy := make(map[string]int, len(patterns))
	seen := map[string]bool{}
	var files []string

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(root, name)

		if !isRegular(path, entry) {
			continue
		}

		matched := false
		for _, p := range patterns {
			// dot files only match patterns that start with a dot
			if strings.HasPrefix(name, ".") && !strings.HasPrefix(p, ".") {
				continue
			}
			ok, err := doublestar.Match(p, name)
			if err != nil {
				return nil, errors.Errorf("matching pattern %q: %w", p, err)
			}
			if ok {
				matchedBy[p]++
				matched = true
			}
		}
		if !matched {
			continue
		}

		key := resolve(path)
		if seen[key] {
			logger.Debug().Str("file", path).Str("resolved", key).Msg("skipping duplicate file")
			continue
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, p := range patterns {
		if matchedBy[p] == 0 {
			logger.Debug().Str("pattern", p).Str("root", root).Msg("pattern matched no files")
		}
	}

	slices.Sort(files)
	return files, nil
}

// isRegular reports whether path is a regular file, following symlinks
func isRegular(path string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// resolve returns the absolute, symlink-free form of path when it can be
// determined, falling back to the cleaned absolute path
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
