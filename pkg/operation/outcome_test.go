package operation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/viewmigrate/pkg/text"
)

func TestOutcomeMessage(t *testing.T) {
	manifest := text.Manifest{{Description: "a", Count: 2}, {Description: "b", Count: 1}}

	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{name: "unchanged", outcome: Outcome{}, want: "No changes needed"},
		{name: "dry_run", outcome: Outcome{Manifest: manifest, DryRun: true}, want: "Would be modified (2 transformations)"},
		{name: "modified", outcome: Outcome{Manifest: manifest}, want: "Successfully modified (2 transformations)"},
		{
			name:    "modified_with_backup",
			outcome: Outcome{Manifest: manifest, Backup: "/views/x.sql.exasol_backup"},
			want:    "Successfully modified (2 transformations) - Backup: x.sql.exasol_backup",
		},
		{name: "failed", outcome: Outcome{Err: errors.New("boom")}, want: "Error processing file: boom"},
		{name: "failed_dry_run", outcome: Outcome{Err: errors.New("boom"), DryRun: true}, want: "Error analyzing file: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Message())
		})
	}
}

func TestOutcomeRecord(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	o := Outcome{
		Path:     "/views/x.sql",
		Size:     42,
		Manifest: text.Manifest{{Description: "a", Count: 2}},
	}

	rec := o.Record(at)
	assert.Equal(t, "x.sql", rec.FileName)
	assert.True(t, rec.WasModified)
	assert.Equal(t, []string{"a (2 occurrences)"}, rec.Transformations)
	assert.Equal(t, 1, rec.TransformationCount)
	assert.Equal(t, int64(42), rec.FileSizeBytes)
	assert.Equal(t, at, rec.ProcessedTimestamp)
	assert.False(t, rec.Failed)

	o.Err = errors.New("boom")
	rec = o.Record(at)
	assert.False(t, rec.WasModified)
	assert.Empty(t, rec.Transformations)
	assert.Zero(t, rec.TransformationCount)
	assert.True(t, rec.Failed)
}
