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

package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestFileOperations(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, dir string)
		operation func(t *testing.T, ctx context.Context, mgr *Manager, dir string)
	}{
		{
			name: "backup_is_byte_identical",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("CREATE FORCE VIEW a AS\r\nSELECT 1;\x00"), 0644))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				content, err := mgr.ReadFile(ctx, "v.sql")
				require.NoError(t, err)

				backup, err := mgr.BackupFile(ctx, "v.sql", content)
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(dir, "v.sql.exasol_backup"), backup)

				got, err := os.ReadFile(backup)
				require.NoError(t, err)
				assert.Equal(t, content, got)
			},
		},
		{
			name: "backup_overwrites_previous_backup",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql.exasol_backup"), []byte("stale backup with more bytes"), 0644))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				backup, err := mgr.BackupFile(ctx, "v.sql", []byte("fresh"))
				require.NoError(t, err)

				got, err := os.ReadFile(backup)
				require.NoError(t, err)
				assert.Equal(t, "fresh", string(got))
			},
		},
		{
			name: "atomic_write_preserves_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("old"), 0600))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "v.sql", []byte("new")))

				info, err := os.Stat(filepath.Join(dir, "v.sql"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

				got, err := os.ReadFile(filepath.Join(dir, "v.sql"))
				require.NoError(t, err)
				assert.Equal(t, "new", string(got))

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Len(t, entries, 1, "temp file should be renamed away")
			},
		},
		{
			name: "absolute_paths_ignore_base",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("abs"), 0644))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				content, err := New("/nonexistent").ReadFile(ctx, filepath.Join(dir, "v.sql"))
				require.NoError(t, err)
				assert.Equal(t, "abs", string(content))
			},
		},
		{
			name: "restore_round_trip",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("original"), 0644))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				content, err := mgr.ReadFile(ctx, "v.sql")
				require.NoError(t, err)
				_, err = mgr.BackupFile(ctx, "v.sql", content)
				require.NoError(t, err)
				require.NoError(t, mgr.WriteFileAtomic(ctx, "v.sql", []byte("rewritten")))

				require.NoError(t, mgr.RestoreFile(ctx, "v.sql"))

				got, err := os.ReadFile(filepath.Join(dir, "v.sql"))
				require.NoError(t, err)
				assert.Equal(t, "original", string(got))

				assert.NoFileExists(t, filepath.Join(dir, "v.sql.exasol_backup"), "backup should be removed after restore")
			},
		},
		{
			name: "restore_without_backup",
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				err := mgr.RestoreFile(ctx, "v.sql")
				require.Error(t, err)
				assert.Contains(t, err.Error(), "backup file does not exist")
			},
		},
		{
			name: "read_missing_file",
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				_, err := mgr.ReadFile(ctx, "missing.sql")
				require.Error(t, err)
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "backup_into_missing_directory",
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				_, err := mgr.BackupFile(ctx, filepath.Join("gone", "v.sql"), []byte("x"))
				require.Error(t, err)
				assert.Contains(t, err.Error(), "writing backup")
			},
		},
		{
			name: "backup_keeps_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("private"), 0600))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				backup, err := mgr.BackupFile(ctx, "v.sql", []byte("private"))
				require.NoError(t, err)

				info, err := os.Stat(backup)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			},
		},
		{
			name: "failed_backup_leaves_no_partial_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("original"), 0644))
				// a directory in the way makes the final rename fail
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "v.sql.exasol_backup", "keep"), 0755))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				_, err := mgr.BackupFile(ctx, "v.sql", []byte("original"))
				require.Error(t, err)
				assert.Contains(t, err.Error(), "writing backup")

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Name())
				}
				assert.ElementsMatch(t, []string{"v.sql", "v.sql.exasol_backup"}, names, "temp file should be cleaned up")

				// nothing usable was written, so restore must not touch the original
				require.Error(t, mgr.RestoreFile(ctx, "v.sql"))
				got, err := os.ReadFile(filepath.Join(dir, "v.sql"))
				require.NoError(t, err)
				assert.Equal(t, "original", string(got))
			},
		},
		{
			name: "file_size",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v.sql"), []byte("12345"), 0644))
			},
			operation: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				size, err := mgr.FileSize(ctx, "v.sql")
				require.NoError(t, err)
				assert.Equal(t, int64(5), size)

				_, err = mgr.FileSize(ctx, "missing.sql")
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			tt.operation(t, testContext(t), New(dir), dir)
		})
	}
}

func TestStatusTracking(t *testing.T) {
	ctx := testContext(t)
	mgr := New(t.TempDir())

	mgr.StartOperation(ctx, 3)
	mgr.TrackFile(ctx, FileInfo{Path: "b.sql", Status: StatusModified, Changes: 2})
	mgr.UpdateProgress(ctx, 1)
	mgr.TrackFile(ctx, FileInfo{Path: "a.sql", Status: StatusUnchanged})
	mgr.UpdateProgress(ctx, 2)
	mgr.TrackFile(ctx, FileInfo{Path: "c.sql", Status: StatusFailed, Error: assert.AnError})
	mgr.UpdateProgress(ctx, 3)
	mgr.FinishOperation(ctx)

	files, err := mgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"a.sql", "b.sql", "c.sql"}, []string{files[0].Path, files[1].Path, files[2].Path})
	assert.Equal(t, 2, files[1].Changes)
	assert.Equal(t, StatusFailed, files[2].Status)

	// tracking the same path again replaces the entry
	mgr.TrackFile(ctx, FileInfo{Path: "c.sql", Status: StatusRestored})
	files, err = mgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, StatusRestored, files[2].Status)
}
