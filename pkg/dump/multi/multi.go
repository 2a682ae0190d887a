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

// Package multi discovers and scans many independent segments under a
// partition directory tree concurrently. Parallelism is strictly across
// segments, never within one: each segment's batch stream is still read
// single-threaded front to back, matching the core parser's concurrency
// model.
package multi

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/txninfo"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/validate"
)

// Result pairs one segment file with its outcome.
type Result struct {
	Path    string
	Segment *dump.Segment
	Summary *txninfo.Summary
	Err     error
}

// Discover walks root and returns every "*.log" dump file found, sorted by
// the numeric offset encoded in its basename (matching the scan driver's
// required offset-order output per spec §6).
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".log" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
	return paths, nil
}

// Scan reads and summarizes every path in paths, at most maxConcurrency at
// a time, bounding concurrent open file handles the same way
// pkg/storage's PartitionLog bounds concurrent S3 operations with a
// semaphore.Weighted. Results preserve the input order. decoder may be nil,
// in which case every message's Payload passes through unchanged.
func Scan(ctx context.Context, paths []string, maxConcurrency int64, cache *SummaryCache, decoder dump.PayloadDecoder) ([]Result, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	sem := semaphore.NewWeighted(maxConcurrency)
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			defer sem.Release(1)

			if cache != nil {
				if summary, ok := cache.Get(path); ok {
					results[i] = Result{Path: path, Summary: summary}
					return nil
				}
			}

			seg, err := dump.ReadSegmentFile(path, dump.ReadOptions{})
			if err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			defer seg.Batches().Close()

			summary, err := txninfo.Collect(dump.DecodePayloads(validate.Chain(seg.Batches(), seg.Type), decoder))
			if err != nil {
				results[i] = Result{Path: path, Segment: seg, Err: err}
				return nil
			}
			if cache != nil {
				cache.Set(path, summary)
			}
			results[i] = Result{Path: path, Segment: seg, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
