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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/pkg/discover"
	"github.com/walteh/viewmigrate/pkg/rules"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data on top of the defaults
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// FileNames are the config files looked for when none is named, in order
var FileNames = []string{
	".viewmigrate.yaml",
	".viewmigrate.yml",
	".viewmigrate.json",
	".viewmigrate.hcl",
	".viewmigrate.toml",
}

// 📚 Config holds every setting of a migration run
type Config struct {
	Root        string       `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
	Patterns    []string     `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty"`
	Backup      bool         `json:"backup" yaml:"backup" toml:"backup"`
	DryRun      bool         `json:"dry_run,omitempty" yaml:"dry_run,omitempty" toml:"dry_run,omitempty"`
	Report      string       `json:"report,omitempty" yaml:"report,omitempty" toml:"report,omitempty"`
	Workers     int          `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty"`
	FileTimeout string       `json:"file_timeout,omitempty" yaml:"file_timeout,omitempty" toml:"file_timeout,omitempty"`
	Rules       []rules.Spec `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`
}

// 🏭 Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Patterns: append([]string(nil), discover.DefaultPatterns...),
		Backup:   true,
		Workers:  1,
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Find returns the first of FileNames present in dir, or "" when there is none
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
	}
	return "", nil
}

// 🔍 Validate checks the configuration and fills in defaults for empty values
func (cfg *Config) Validate() error {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = append([]string(nil), discover.DefaultPatterns...)
	}
	for i, p := range cfg.Patterns {
		if strings.TrimSpace(p) == "" {
			return errors.Errorf("patterns[%d] is empty", i)
		}
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	if _, err := cfg.Timeout(); err != nil {
		return err
	}

	if _, err := rules.CompileAll(cfg.Rules); err != nil {
		return errors.Errorf("compiling rules: %w", err)
	}

	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}

	return nil
}

// Timeout parses FileTimeout; an empty value means no timeout
func (cfg *Config) Timeout() (time.Duration, error) {
	if cfg.FileTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.FileTimeout)
	if err != nil {
		return 0, errors.Errorf("parsing file_timeout: %w", err)
	}
	if d < 0 {
		return 0, errors.Errorf("file_timeout must not be negative, got %s", d)
	}
	return d, nil
}

// 📜 RuleSet returns the built-in rules followed by the configured ones
func (cfg *Config) RuleSet() (*rules.Set, error) {
	extra, err := rules.CompileAll(cfg.Rules)
	if err != nil {
		return nil, errors.Errorf("compiling rules: %w", err)
	}
	return rules.Default().With(extra...), nil
}

// ReportPath returns the configured report path, or a timestamped name in the
// working directory when none is set
func (cfg *Config) ReportPath(now time.Time) string {
	if cfg.Report != "" {
		return cfg.Report
	}
	return fmt.Sprintf("migration_report_%s.csv", now.Format("20060102_150405"))
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "write"
	if cfg.DryRun {
		mode = "dry-run"
	}
	return fmt.Sprintf("%s [%s] mode=%s backup=%t workers=%d rules=+%d",
		cfg.Root, strings.Join(cfg.Patterns, " "), mode, cfg.Backup, cfg.Workers, len(cfg.Rules))
}
