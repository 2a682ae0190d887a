// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
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

package yamlconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.OutputFormat != "text" {
		t.Fatalf("expected default output format text, got %q", cfg.OutputFormat)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("expected default concurrency 4, got %d", cfg.Concurrency)
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yaml")
	raw := []byte("outputFormat: json\ns3:\n  bucket: dumps\n  region: us-east-1\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputFormat != "json" {
		t.Fatalf("expected outputFormat json, got %q", cfg.OutputFormat)
	}
	if cfg.Concurrency != 4 {
		t.Fatalf("expected untouched concurrency to keep default, got %d", cfg.Concurrency)
	}
	if cfg.S3.Bucket != "dumps" || cfg.S3.Region != "us-east-1" {
		t.Fatalf("unexpected s3 config: %+v", cfg.S3)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadParsesAccessPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yaml")
	raw := []byte("access:\n" +
		"  enabled: true\n" +
		"  defaultPolicy: deny\n" +
		"  principals:\n" +
		"    - name: etl\n" +
		"      allow:\n" +
		"        - action: archive\n" +
		"          topic: \"orders-*\"\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Access.Enabled || cfg.Access.DefaultPolicy != "deny" {
		t.Fatalf("unexpected access config: %+v", cfg.Access)
	}
	if len(cfg.Access.Principals) != 1 || cfg.Access.Principals[0].Name != "etl" {
		t.Fatalf("unexpected principals: %+v", cfg.Access.Principals)
	}
}
