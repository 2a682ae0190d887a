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

// Package snapshot publishes scan summaries to etcd, giving operators a
// queryable history of past scans without standing up a database.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/novatechflow/kafscale-segdump/pkg/dump/ids"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/txninfo"
)

const keyPrefixDefault = "/kafscale/dumpscan/"

// Publisher writes scan summaries to etcd under keyPrefix + label.
type Publisher struct {
	client    *clientv3.Client
	logger    *slog.Logger
	keyPrefix string
	run       ids.RunID
}

// NewPublisher wraps an existing etcd client. keyPrefix defaults to
// "/kafscale/dumpscan/" when empty.
func NewPublisher(client *clientv3.Client, keyPrefix string, run ids.RunID, logger *slog.Logger) *Publisher {
	if keyPrefix == "" {
		keyPrefix = keyPrefixDefault
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, keyPrefix: keyPrefix, run: run, logger: logger}
}

// record is the JSON shape written to etcd: a run-tagged summary with the
// stats collapsed to plain numbers (txninfo.Stats itself is JSON-safe, but
// kept here so the wire shape is independent of the in-process type).
type record struct {
	RunID             string `json:"runId"`
	Label             string `json:"label"`
	Committed         int64  `json:"committed"`
	Aborted           int64  `json:"aborted"`
	OpenTransactions  int    `json:"openTransactions"`
	EmptyTransactions int    `json:"emptyTransactions"`
	TxnSizeMean       float64 `json:"txnSizeMean"`
	TxnDurationMeanMs float64 `json:"txnDurationMeanMs"`
}

// Publish writes one segment's summary to etcd under
// <keyPrefix><label>. label is typically the segment's dump file path.
func (p *Publisher) Publish(ctx context.Context, label string, summary *txninfo.Summary) error {
	rec := record{
		RunID:             p.run.String(),
		Label:             label,
		Committed:         summary.Committed,
		Aborted:           summary.Aborted,
		OpenTransactions:  len(summary.OpenTransactions),
		EmptyTransactions: len(summary.EmptyTransactions),
		TxnSizeMean:       summary.TxnSizeStats.Mean(),
		TxnDurationMeanMs: summary.TxnDurationStats.Mean(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal scan summary for %s: %w", label, err)
	}
	key := p.keyPrefix + label
	if _, err := p.client.Put(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("publish scan summary to etcd key %s: %w", key, err)
	}
	p.logger.Info("published scan summary", "key", key, "runId", p.run)
	return nil
}
