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

package snapshot

import (
	"context"
	"strings"
	"testing"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/novatechflow/kafscale-segdump/internal/testutil"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/ids"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/txninfo"
)

func TestPublishWritesRecordToEtcd(t *testing.T) {
	endpoints := testutil.StartEmbeddedEtcd(t)

	client, err := clientv3.New(clientv3.Config{Endpoints: endpoints, DialTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("clientv3.New: %v", err)
	}
	defer client.Close()

	run := ids.NewRunID()
	pub := NewPublisher(client, "", run, nil)

	summary := &txninfo.Summary{Committed: 3, Aborted: 1}
	summary.TxnSizeStats.Count = 0

	if err := pub.Publish(context.Background(), "00000000000000000000.log", summary); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	key := keyPrefixDefault + "00000000000000000000.log"
	resp, err := client.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resp.Kvs) != 1 {
		t.Fatalf("expected one key %q, found %d", key, len(resp.Kvs))
	}
	body := string(resp.Kvs[0].Value)
	if !strings.Contains(body, `"committed":3`) || !strings.Contains(body, `"aborted":1`) {
		t.Fatalf("unexpected published body: %s", body)
	}
	if !strings.Contains(body, run.String()) {
		t.Fatalf("expected published body to carry the run id: %s", body)
	}
}

func TestPublishUsesCustomKeyPrefix(t *testing.T) {
	endpoints := testutil.StartEmbeddedEtcd(t)

	client, err := clientv3.New(clientv3.Config{Endpoints: endpoints, DialTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("clientv3.New: %v", err)
	}
	defer client.Close()

	pub := NewPublisher(client, "/custom/", ids.NewRunID(), nil)
	if err := pub.Publish(context.Background(), "seg.log", &txninfo.Summary{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	resp, err := client.Get(context.Background(), "/custom/seg.log")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resp.Kvs) != 1 {
		t.Fatalf("expected key under the custom prefix, found %d", len(resp.Kvs))
	}
}
