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
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Format is a serialization of the report
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// 🔌 Writer serializes records
type Writer interface {
	Write(w io.Writer, meta Meta, records []Record) error
}

var writers = map[Format]Writer{
	FormatCSV:  csvWriter{},
	FormatJSON: jsonWriter{},
	FormatYAML: yamlWriter{},
}

// FormatFor picks the format from the report path's extension. Anything that
// is not JSON or YAML is written as CSV.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Encode writes records to w in the given format
func Encode(w io.Writer, format Format, meta Meta, records []Record) error {
	writer, ok := writers[format]
	if !ok {
		return errors.Errorf("unsupported report format: %s", format)
	}
	return writer.Write(w, meta, records)
}

// 💾 WriteFile serializes records to path, choosing the format by extension.
// Nothing is written when encoding fails.
func WriteFile(ctx context.Context, path string, meta Meta, records []Record) error {
	var buf bytes.Buffer
	format := FormatFor(path)
	if err := Encode(&buf, format, meta, records); err != nil {
		return errors.Errorf("encoding %s report: %w", format, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Errorf("writing report: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("records", len(records)).
		Msg("report written")
	return nil
}

type csvWriter struct{}

func (csvWriter) Write(w io.Writer, _ Meta, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return errors.Errorf("writing row for %s: %w", r.FilePath, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Errorf("flushing csv: %w", err)
	}
	return nil
}

// envelope is the document shape of structured reports
type envelope struct {
	Meta    Meta     `json:"meta" yaml:"meta"`
	Totals  Totals   `json:"totals" yaml:"totals"`
	Records []Record `json:"records" yaml:"records"`
}

func newEnvelope(meta Meta, records []Record) envelope {
	if records == nil {
		records = []Record{}
	}
	return envelope{Meta: meta, Totals: Tally(records), Records: records}
}

type jsonWriter struct{}

func (jsonWriter) Write(w io.Writer, meta Meta, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newEnvelope(meta, records)); err != nil {
		return errors.Errorf("encoding json: %w", err)
	}
	return nil
}

type yamlWriter struct{}

func (yamlWriter) Write(w io.Writer, meta Meta, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newEnvelope(meta, records)); err != nil {
		return errors.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return errors.Errorf("closing yaml encoder: %w", err)
	}
	return nil
}
