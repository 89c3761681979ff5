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
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// BackupSuffix is appended to a file's name to form its backup path
const BackupSuffix = ".exasol_backup"

// 📊 FileStatus represents the outcome of processing a file
type FileStatus int

const (
	StatusUnknown     FileStatus = iota
	StatusUnchanged              // No rule matched
	StatusWouldModify            // Rules matched, dry run
	StatusModified               // Rules matched, file rewritten
	StatusFailed                 // Reading, transforming or writing failed
	StatusRestored               // Backup copied back over the file
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusWouldModify:
		return "would-modify"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	case StatusRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains what is known about a processed file
type FileInfo struct {
	Path    string     // Path as discovered
	Status  FileStatus // Current status
	Size    int64      // Original size in bytes
	Changes int        // Number of rules that fired
	Backup  string     // Backup path, empty when none was written
	Error   error      // Any error associated with this file
}

// 💾 FileManager handles all file system operations
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	FileSize(ctx context.Context, path string) (int64, error)

	// WriteFileAtomic replaces path so that readers see either the old or
	// the new content, never a mix
	WriteFileAtomic(ctx context.Context, path string, content []byte) error

	// BackupFile persists content as the backup of path and returns the
	// backup path. The backup is synced to disk before it returns and an
	// earlier backup is only replaced once the new one is complete.
	BackupFile(ctx context.Context, path string, content []byte) (string, error)
	RestoreFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string        // Relative paths are resolved against this
	formatter FileFormatter // Formatter for status messages

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.baseDir, path)
}

// BackupPath returns where the backup of path is written
func BackupPath(path string) string {
	return path + BackupSuffix
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// FileSize returns the size of path on disk
func (m *Manager) FileSize(ctx context.Context, path string) (int64, error) {
	info, err := os.Stat(m.getAbsPath(path))
	if err != nil {
		return 0, errors.Errorf("checking file size: %w", err)
	}
	return info.Size(), nil
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	mode, err := fileMode(absPath)
	if err != nil {
		return err
	}
	return writeFileAtomic(absPath, content, mode)
}

// BackupFile writes the backup beside path with path's permissions. A failed
// write leaves any earlier backup in place and no partial file behind.
func (m *Manager) BackupFile(ctx context.Context, path string, content []byte) (string, error) {
	absPath := m.getAbsPath(path)
	backupPath := BackupPath(absPath)

	mode, err := fileMode(absPath)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(backupPath, content, mode); err != nil {
		return "", errors.Errorf("writing backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("file", path).Str("backup", backupPath).Int("bytes", len(content)).Msg("backup written")
	return backupPath, nil
}

func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	absPath := m.getAbsPath(path)
	backupPath := BackupPath(absPath)

	content, err := os.ReadFile(backupPath)
	if os.IsNotExist(err) {
		return errors.Errorf("backup file does not exist: %s", backupPath)
	} else if err != nil {
		return errors.Errorf("reading backup: %w", err)
	}

	if err := m.WriteFileAtomic(ctx, absPath, content); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info

	event := zerolog.Ctx(ctx).Debug()
	if info.Error != nil {
		event = zerolog.Ctx(ctx).Warn().Err(info.Error)
	}
	event.Str("file", info.Path).
		Str("status", info.Status.String()).
		Int("changes", info.Changes).
		Msg(m.formatter.FormatFileOperation(info))
}

// ListFiles returns every tracked file ordered by path
func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zerolog.Ctx(ctx).Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

func writeAndSync(f *os.File, content []byte) error {
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fileMode returns the permissions of path, or 0644 when it does not exist
func fileMode(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().Perm(), nil
	}
	if os.IsNotExist(err) {
		return 0644, nil
	}
	return 0, errors.Errorf("checking file mode: %w", err)
}

// writeFileAtomic writes content to a temp file next to path, syncs it and
// renames it over path. The temp file is removed on any failure.
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := writeAndSync(tmp, content); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	// rename is atomic on the same filesystem
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
