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

package dump

import "testing"

func TestNoopPayloadDecoderReturnsPayloadUnchanged(t *testing.T) {
	m := BaseMessage{Payload: "some opaque tail"}
	got, err := NoopPayloadDecoder{}.Decode(m)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != m.Payload {
		t.Errorf("Decode() = %q, want %q", got, m.Payload)
	}
}

type fixedBatches struct {
	batches []Batch
	idx     int
	cur     Batch
}

func (f *fixedBatches) Next() bool {
	if f.idx >= len(f.batches) {
		return false
	}
	f.cur = f.batches[f.idx]
	f.idx++
	return true
}

func (f *fixedBatches) Batch() Batch { return f.cur }
func (f *fixedBatches) Err() error   { return nil }

type upperPayloadDecoder struct{}

func (upperPayloadDecoder) Decode(m BaseMessage) (string, error) {
	return "DECODED:" + m.Payload, nil
}

func TestDecodePayloadsRewritesEveryMessage(t *testing.T) {
	src := &fixedBatches{batches: []Batch{
		{Messages: []BaseMessage{{Payload: "a"}, {Payload: "b"}}},
	}}

	wrapped := DecodePayloads(src, upperPayloadDecoder{})
	if !wrapped.Next() {
		t.Fatalf("Next() = false, want true")
	}
	b := wrapped.Batch()
	if b.Messages[0].Payload != "DECODED:a" || b.Messages[1].Payload != "DECODED:b" {
		t.Errorf("Messages = %+v, want payloads rewritten", b.Messages)
	}
	if wrapped.Next() {
		t.Errorf("Next() = true on exhausted source, want false")
	}
	if err := wrapped.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestDecodePayloadsNilDecoderPassesThrough(t *testing.T) {
	src := &fixedBatches{batches: []Batch{{Messages: []BaseMessage{{Payload: "a"}}}}}
	wrapped := DecodePayloads(src, nil)
	if wrapped != src {
		t.Errorf("DecodePayloads with nil decoder returned a wrapper, want the source unchanged")
	}
}
