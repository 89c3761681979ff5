package status

import (
	"fmt"
	"path/filepath"
)

// FileFormatter defines how file outcomes and progress are worded
type FileFormatter interface {
	// FormatFileOperation formats the outcome of processing one file
	FormatFileOperation(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	name := filepath.Base(info.Path)
	switch info.Status {
	case StatusModified:
		if info.Backup != "" {
			return fmt.Sprintf("📝 Modified %s (%d changes, backup %s)", name, info.Changes, filepath.Base(info.Backup))
		}
		return fmt.Sprintf("📝 Modified %s (%d changes)", name, info.Changes)
	case StatusWouldModify:
		return fmt.Sprintf("🔍 Would modify %s (%d changes)", name, info.Changes)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s: %v", name, info.Error)
	case StatusRestored:
		return fmt.Sprintf("⏪ Restored %s", name)
	default:
		return fmt.Sprintf("👍 Unchanged %s", name)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
