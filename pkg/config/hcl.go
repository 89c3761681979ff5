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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/viewmigrate/pkg/rules"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
//
//	root     = "./views"
//	patterns = ["*.sql"]
//	backup   = false
//
//	rule {
//	  pattern     = "\\bNVL2\\s*\\("
//	  replacement = "IFF_NVL2("
//	  description = "NVL2 to IFF_NVL2"
//	}
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema; pointers tell absent attributes from zero values
	type hclConfig struct {
		Root        *string      `hcl:"root,optional"`
		Patterns    []string     `hcl:"patterns,optional"`
		Backup      *bool        `hcl:"backup,optional"`
		DryRun      *bool        `hcl:"dry_run,optional"`
		Report      *string      `hcl:"report,optional"`
		Workers     *int         `hcl:"workers,optional"`
		FileTimeout *string      `hcl:"file_timeout,optional"`
		Rules       []rules.Spec `hcl:"rule,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Default()
	if hclCfg.Root != nil {
		cfg.Root = *hclCfg.Root
	}
	if hclCfg.Patterns != nil {
		cfg.Patterns = hclCfg.Patterns
	}
	if hclCfg.Backup != nil {
		cfg.Backup = *hclCfg.Backup
	}
	if hclCfg.DryRun != nil {
		cfg.DryRun = *hclCfg.DryRun
	}
	if hclCfg.Report != nil {
		cfg.Report = *hclCfg.Report
	}
	if hclCfg.Workers != nil {
		cfg.Workers = *hclCfg.Workers
	}
	if hclCfg.FileTimeout != nil {
		cfg.FileTimeout = *hclCfg.FileTimeout
	}
	cfg.Rules = hclCfg.Rules

	return cfg, nil
}
