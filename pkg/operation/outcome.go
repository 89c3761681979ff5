package operation

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/walteh/viewmigrate/pkg/report"
	"github.com/walteh/viewmigrate/pkg/status"
	"github.com/walteh/viewmigrate/pkg/text"
)

// 📄 Outcome is what happened to one discovered file
type Outcome struct {
	Path     string
	Status   status.FileStatus
	Size     int64
	Manifest text.Manifest
	Backup   string // empty unless a backup was written
	DryRun   bool
	Err      error

	// Result holds the transformed text when the file was read and transformed
	Result *text.Result
}

// Modified reports whether any rule fired, whether or not the file was written
func (o Outcome) Modified() bool {
	return o.Err == nil && len(o.Manifest) > 0
}

// Message is the human readable status recorded in the report
func (o Outcome) Message() string {
	switch {
	case o.Err != nil && o.DryRun:
		return fmt.Sprintf("Error analyzing file: %v", o.Err)
	case o.Err != nil:
		return fmt.Sprintf("Error processing file: %v", o.Err)
	case len(o.Manifest) == 0:
		return "No changes needed"
	case o.DryRun:
		return fmt.Sprintf("Would be modified (%d transformations)", len(o.Manifest))
	case o.Backup != "":
		return fmt.Sprintf("Successfully modified (%d transformations) - Backup: %s", len(o.Manifest), filepath.Base(o.Backup))
	default:
		return fmt.Sprintf("Successfully modified (%d transformations)", len(o.Manifest))
	}
}

// Record converts the outcome into a report row stamped with processedAt
func (o Outcome) Record(processedAt time.Time) report.Record {
	rec := report.Record{
		FilePath:           o.Path,
		FileName:           filepath.Base(o.Path),
		WasModified:        o.Modified(),
		Status:             o.Message(),
		FileSizeBytes:      o.Size,
		ProcessedTimestamp: processedAt,
		Failed:             o.Err != nil,
	}
	if o.Err == nil {
		rec.Transformations = o.Manifest.Strings()
		rec.TransformationCount = len(o.Manifest)
	}
	return rec
}

func (o Outcome) info() status.FileInfo {
	return status.FileInfo{
		Path:    o.Path,
		Status:  o.Status,
		Size:    o.Size,
		Changes: len(o.Manifest),
		Backup:  o.Backup,
		Error:   o.Err,
	}
}
