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

// Package yamlconfig loads the scan driver's optional YAML configuration
// file, covering the settings that don't fit comfortably on the command
// line: output format, and the S3/etcd archival targets.
//
// cmd/dumpscan reads the s3, etcd.keyPrefix and access settings from it.
// outputFormat, concurrency and etcd.endpoints are parsed but not used by
// the driver, which takes those from its -json, -concurrency and
// -publish-etcd flags.
package yamlconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novatechflow/kafscale-segdump/pkg/dump/access"
)

// Config is the on-disk shape of -config scan.yaml.
type Config struct {
	OutputFormat string `yaml:"outputFormat"`
	Concurrency  int    `yaml:"concurrency"`

	Etcd struct {
		Endpoints []string `yaml:"endpoints"`
		KeyPrefix string   `yaml:"keyPrefix"`
	} `yaml:"etcd"`

	S3 struct {
		Bucket         string `yaml:"bucket"`
		Region         string `yaml:"region"`
		Endpoint       string `yaml:"endpoint"`
		ForcePathStyle bool   `yaml:"forcePathStyle"`
		Prefix         string `yaml:"prefix"`
	} `yaml:"s3"`

	// Access gates -archive-s3 and -publish-etcd behind a principal/topic
	// rule set. Disabled (the zero value) allows everything.
	Access access.Config `yaml:"access"`
}

// Default returns the zero-configuration baseline: text output, a
// concurrency bound of 4, and no archival targets.
func Default() Config {
	return Config{OutputFormat: "text", Concurrency: 4}
}

// Load reads and parses path, starting from Default() so a partial file
// only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
