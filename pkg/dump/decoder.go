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

import "fmt"

// PayloadDecoder interprets a BaseMessage's opaque Payload string, the way
// the broker's own dump tool defers to a caller-supplied value decoder
// class rather than hardcoding one. The core parser never calls a
// PayloadDecoder itself; it is purely a convenience for callers that want
// to render record payloads without duplicating the message model.
type PayloadDecoder interface {
	Decode(m BaseMessage) (string, error)
}

// NoopPayloadDecoder returns the payload unchanged. It is the zero-value
// default: callers that never configure a decoder see exactly the text
// the dump tool wrote.
type NoopPayloadDecoder struct{}

func (NoopPayloadDecoder) Decode(m BaseMessage) (string, error) {
	return m.Payload, nil
}

// batchIterator is the minimal shape DecodePayloads wraps and implements,
// matched by *Batches and any validate chain built on one.
type batchIterator interface {
	Next() bool
	Batch() Batch
	Err() error
}

// decodeBatches runs every message's Payload through a PayloadDecoder
// before the batch reaches downstream consumers.
type decodeBatches struct {
	src     batchIterator
	decoder PayloadDecoder
	cur     Batch
	err     error
}

// DecodePayloads wraps src so that every message's Payload is rewritten by
// decoder.Decode before the batch is handed to the caller. A nil decoder
// passes batches through unchanged.
func DecodePayloads(src batchIterator, decoder PayloadDecoder) batchIterator {
	if decoder == nil {
		return src
	}
	return &decodeBatches{src: src, decoder: decoder}
}

func (d *decodeBatches) Next() bool {
	if d.err != nil {
		return false
	}
	if !d.src.Next() {
		d.err = d.src.Err()
		return false
	}
	b := d.src.Batch()
	for i, m := range b.Messages {
		decoded, err := d.decoder.Decode(m)
		if err != nil {
			d.err = fmt.Errorf("%s:%d: decode payload: %w", m.File, m.Line, err)
			return false
		}
		b.Messages[i].Payload = decoded
	}
	d.cur = b
	return true
}

func (d *decodeBatches) Batch() Batch { return d.cur }
func (d *decodeBatches) Err() error   { return d.err }
