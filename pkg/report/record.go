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

package report

import (
	"strconv"
	"strings"
	"time"
)

// TimestampFormat is how processed_timestamp is rendered
const TimestampFormat = time.RFC3339

// TransformationSeparator joins the entries of transformations_applied
const TransformationSeparator = "; "

// Header is the fixed column order of a tabular report
var Header = []string{
	"file_path",
	"file_name",
	"was_modified",
	"status",
	"transformations_applied",
	"transformation_count",
	"file_size_bytes",
	"processed_timestamp",
}

// 📄 Record is the outcome of processing one file
type Record struct {
	FilePath            string    `json:"file_path" yaml:"file_path"`
	FileName            string    `json:"file_name" yaml:"file_name"`
	WasModified         bool      `json:"was_modified" yaml:"was_modified"`
	Status              string    `json:"status" yaml:"status"`
	Transformations     []string  `json:"transformations_applied" yaml:"transformations_applied"`
	TransformationCount int       `json:"transformation_count" yaml:"transformation_count"`
	FileSizeBytes       int64     `json:"file_size_bytes" yaml:"file_size_bytes"`
	ProcessedTimestamp  time.Time `json:"processed_timestamp" yaml:"processed_timestamp"`
	Failed              bool      `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Row renders the record in Header order
func (r Record) Row() []string {
	return []string{
		r.FilePath,
		r.FileName,
		yesNo(r.WasModified),
		r.Status,
		strings.Join(r.Transformations, TransformationSeparator),
		strconv.Itoa(r.TransformationCount),
		strconv.FormatInt(r.FileSizeBytes, 10),
		r.ProcessedTimestamp.Format(TimestampFormat),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// 📦 Meta describes the run a report belongs to
type Meta struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Root        string    `json:"root" yaml:"root"`
	Patterns    []string  `json:"patterns" yaml:"patterns"`
	DryRun      bool      `json:"dry_run" yaml:"dry_run"`
	Backup      bool      `json:"backup" yaml:"backup"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Totals summarises a set of records
type Totals struct {
	Files    int `json:"files" yaml:"files"`
	Modified int `json:"modified" yaml:"modified"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Tally counts records by outcome
func Tally(records []Record) Totals {
	t := Totals{Files: len(records)}
	for _, r := range records {
		if r.WasModified {
			t.Modified++
		}
		if r.Failed {
			t.Failed++
		}
	}
	return t
}
