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

// Package access gates the scan driver's riskier actions (archiving a
// dump to S3, publishing a summary to etcd) behind a principal/topic rule
// set, the same shape the broker uses to authorize client requests.
package access

import "strings"

// Action names one of the scan driver's gated operations.
type Action string

const (
	ActionAny     Action = "*"
	ActionScan    Action = "scan"
	ActionArchive Action = "archive"
	ActionPublish Action = "publish"
)

// Rule grants or denies an Action against topics matching Topic (supports
// a trailing "*" wildcard, or "*" for any topic).
type Rule struct {
	Action Action `json:"action" yaml:"action"`
	Topic  string `json:"topic" yaml:"topic"`
}

// PrincipalRules is one operator's (or service account's) allow/deny list.
type PrincipalRules struct {
	Name  string `json:"name" yaml:"name"`
	Allow []Rule `json:"allow" yaml:"allow"`
	Deny  []Rule `json:"deny" yaml:"deny"`
}

// Config is the on-disk shape of the scan driver's access policy, embedded
// under the "access" key of the scan driver's YAML config file.
type Config struct {
	Enabled       bool             `json:"enabled" yaml:"enabled"`
	DefaultPolicy string           `json:"defaultPolicy" yaml:"defaultPolicy"`
	Principals    []PrincipalRules `json:"principals" yaml:"principals"`
}

// Authorizer evaluates Config against (principal, action, topic) triples.
// A nil *Authorizer, like a disabled one, allows everything.
type Authorizer struct {
	enabled      bool
	defaultAllow bool
	principals   map[string]PrincipalRules
}

// NewAuthorizer builds an Authorizer from cfg.
func NewAuthorizer(cfg Config) *Authorizer {
	defaultAllow := strings.EqualFold(strings.TrimSpace(cfg.DefaultPolicy), "allow")
	principals := make(map[string]PrincipalRules, len(cfg.Principals))
	for _, p := range cfg.Principals {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		principals[name] = p
	}
	return &Authorizer{enabled: cfg.Enabled, defaultAllow: defaultAllow, principals: principals}
}

// Allows reports whether principal may perform action against topic.
func (a *Authorizer) Allows(principal string, action Action, topic string) bool {
	if a == nil || !a.enabled {
		return true
	}
	principal = strings.TrimSpace(principal)
	if principal == "" {
		principal = "anonymous"
	}
	rules, ok := a.principals[principal]
	if !ok {
		return a.defaultAllow
	}
	for _, rule := range rules.Deny {
		if matches(rule, action, topic) {
			return false
		}
	}
	for _, rule := range rules.Allow {
		if matches(rule, action, topic) {
			return true
		}
	}
	return a.defaultAllow
}

func matches(rule Rule, action Action, topic string) bool {
	if rule.Action != "" && rule.Action != ActionAny && !strings.EqualFold(string(rule.Action), string(action)) {
		return false
	}
	return topicMatches(rule.Topic, topic)
}

func topicMatches(ruleTopic, topic string) bool {
	ruleTopic = strings.TrimSpace(ruleTopic)
	if ruleTopic == "" || ruleTopic == "*" {
		return true
	}
	if strings.HasSuffix(ruleTopic, "*") {
		return strings.HasPrefix(topic, strings.TrimSuffix(ruleTopic, "*"))
	}
	return ruleTopic == topic
}
