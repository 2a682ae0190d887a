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

// Command dumpscan parses the broker's offline segment dump output,
// validates every batch against the log's structural invariants, and
// summarizes the transaction activity it finds. Given a directory it
// walks and scans every segment concurrently; given individual paths it
// scans exactly those, sorted by path so that the broker's zero-padded
// segment file names come out in offset order.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc/status"

	"github.com/novatechflow/kafscale-segdump/pkg/dump"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/access"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/grpcservice"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/ids"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/multi"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/s3archive"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/snapshot"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/tui"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/txninfo"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/validate"
	"github.com/novatechflow/kafscale-segdump/pkg/dump/yamlconfig"
)

const defaultMetricsAddr = ""

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		jsonOutput   = flag.Bool("json", false, "emit one JSON summary object per segment instead of text")
		dir          = flag.String("dir", "", "scan every *.log dump under this directory instead of the given paths")
		concurrency  = flag.Int64("concurrency", 4, "max segments scanned concurrently in -dir mode")
		cacheSize    = flag.Int("cache-size", 128, "max cached segment summaries kept across a -dir scan")
		metricsAddr  = flag.String("metrics-addr", envOrDefault("KAFSCALE_DUMPSCAN_METRICS_ADDR", defaultMetricsAddr), "address to serve Prometheus metrics on, empty to disable")
		configPath   = flag.String("config", "", "optional YAML config file (see yamlconfig.Config)")
		publishEtcd  = flag.String("publish-etcd", "", "comma-separated etcd endpoints to publish scan summaries to")
		archiveS3    = flag.Bool("archive-s3", false, "archive each scanned dump and its summary to S3 (requires -config s3 settings)")
		interactive  = flag.Bool("tui", false, "browse results interactively instead of printing them")
		principal    = flag.String("principal", envOrDefault("KAFSCALE_DUMPSCAN_PRINCIPAL", ""), "identity to authorize -archive-s3/-publish-etcd against (requires -config access settings)")
		valueDecoder = flag.Bool("value-decoder", false, "run every record payload through a dump.PayloadDecoder before summarizing")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [dump-file ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := newLogger()
	startMetricsServer(ctx, *metricsAddr, logger)

	cfg := yamlconfig.Default()
	if *configPath != "" {
		loaded, err := yamlconfig.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	authorizer := access.NewAuthorizer(cfg.Access)

	var decoder dump.PayloadDecoder
	if *valueDecoder {
		decoder = dump.NoopPayloadDecoder{}
	}

	paths, err := resolvePaths(*dir, flag.Args())
	if err != nil {
		logger.Error("failed to resolve input paths", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	run := ids.NewRunID()
	logger = logger.With("runId", run.String())

	var publisher *snapshot.Publisher
	if *publishEtcd != "" {
		endpoints := strings.Split(*publishEtcd, ",")
		client, err := clientv3.New(clientv3.Config{Endpoints: endpoints})
		if err != nil {
			logger.Error("failed to connect to etcd", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = snapshot.NewPublisher(client, cfg.Etcd.KeyPrefix, run, logger)
	}

	var archiver *s3archive.Client
	if *archiveS3 {
		archiver, err = s3archive.New(ctx, s3archive.Config{
			Bucket:         cfg.S3.Bucket,
			Region:         cfg.S3.Region,
			Endpoint:       cfg.S3.Endpoint,
			ForcePathStyle: cfg.S3.ForcePathStyle,
			Prefix:         cfg.S3.Prefix,
		})
		if err != nil {
			logger.Error("failed to build S3 archive client", "error", err)
			os.Exit(1)
		}
	}

	var results []multi.Result
	if *dir != "" {
		results, err = multi.Scan(ctx, paths, *concurrency, multi.NewSummaryCache(*cacheSize), decoder)
		if err != nil {
			logger.Error("scan failed", "error", err)
			os.Exit(1)
		}
	} else {
		results = scanEach(paths, logger, decoder)
	}

	exitCode := 0
	for _, r := range results {
		if r.Err != nil {
			exitCode = 1
			scanSegmentsTotal.WithLabelValues("error").Inc()
			logger.Error("segment scan failed", "path", r.Path, "error", r.Err, "grpcCode", status.Code(grpcservice.ToStatus(r.Err)).String())
			continue
		}
		scanSegmentsTotal.WithLabelValues("ok").Inc()
		scanBatchSize.Observe(r.Summary.TxnSizeStats.Mean())

		topic := ""
		if r.Segment != nil {
			topic = r.Segment.Topic
		}

		if publisher != nil {
			if !authorizer.Allows(*principal, access.ActionPublish, topic) {
				logger.Warn("principal not authorized to publish summary", "path", r.Path, "principal", *principal, "topic", topic)
			} else if err := publisher.Publish(ctx, r.Path, r.Summary); err != nil {
				logger.Error("failed to publish summary", "path", r.Path, "error", err)
			}
		}
		if archiver != nil {
			if !authorizer.Allows(*principal, access.ActionArchive, topic) {
				logger.Warn("principal not authorized to archive summary", "path", r.Path, "principal", *principal, "topic", topic)
			} else if err := archiveResult(ctx, archiver, r); err != nil {
				logger.Error("failed to archive summary", "path", r.Path, "error", err)
			}
		}
	}

	if *interactive {
		if err := tui.New(results).Run(); err != nil {
			logger.Error("tui exited with error", "error", err)
			os.Exit(1)
		}
		return
	}

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if *jsonOutput {
			printJSON(r)
		} else {
			printText(r)
		}
	}

	os.Exit(exitCode)
}

// resolvePaths returns the segment files to scan, sorted into offset order.
// -dir takes precedence over positional arguments.
func resolvePaths(dir string, args []string) ([]string, error) {
	if dir != "" {
		return multi.Discover(dir)
	}
	paths := append([]string(nil), args...)
	sort.Strings(paths)
	return paths, nil
}

// scanEach drives dump.ReadSegmentFile + validate.Chain + txninfo.Collect
// for each path sequentially, the single-process path taken when the
// caller names individual files rather than a directory to fan out over.
// decoder may be nil, in which case every message's Payload passes through
// unchanged.
func scanEach(paths []string, logger *slog.Logger, decoder dump.PayloadDecoder) []multi.Result {
	results := make([]multi.Result, 0, len(paths))
	for _, path := range paths {
		seg, err := dump.ReadSegmentFile(path, dump.ReadOptions{Logger: logger})
		if err != nil {
			results = append(results, multi.Result{Path: path, Err: err})
			continue
		}
		summary, err := txninfo.Collect(dump.DecodePayloads(validate.Chain(seg.Batches(), seg.Type), decoder))
		closeErr := seg.Batches().Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			results = append(results, multi.Result{Path: path, Segment: seg, Err: err})
			continue
		}
		results = append(results, multi.Result{Path: path, Segment: seg, Summary: summary})
	}
	return results
}

func archiveResult(ctx context.Context, archiver *s3archive.Client, r multi.Result) error {
	text, err := os.ReadFile(r.Path)
	if err != nil {
		return fmt.Errorf("read dump %s: %w", r.Path, err)
	}
	if err := archiver.UploadDumpText(ctx, r.Path, text); err != nil {
		return err
	}
	raw, err := json.Marshal(summaryView(r))
	if err != nil {
		return fmt.Errorf("marshal summary for %s: %w", r.Path, err)
	}
	return archiver.UploadSummaryJSON(ctx, r.Path, raw)
}

type summary struct {
	Path              string  `json:"path"`
	Topic             string  `json:"topic,omitempty"`
	Type              string  `json:"type"`
	RecordCount       int64   `json:"recordCount"`
	MaxBatchSize      int32   `json:"maxBatchSize"`
	Committed         int64   `json:"committed"`
	Aborted           int64   `json:"aborted"`
	OpenTransactions  int     `json:"openTransactions"`
	EmptyTransactions int     `json:"emptyTransactions"`
	TxnSizeMean       float64 `json:"txnSizeMean"`
	TxnDurationMeanMs float64 `json:"txnDurationMeanMs"`
}

func summaryView(r multi.Result) summary {
	s := summary{Path: r.Path, RecordCount: r.Summary.RecordCount, MaxBatchSize: r.Summary.MaxBatchSize,
		Committed: r.Summary.Committed, Aborted: r.Summary.Aborted,
		OpenTransactions: len(r.Summary.OpenTransactions), EmptyTransactions: len(r.Summary.EmptyTransactions),
		TxnSizeMean: r.Summary.TxnSizeStats.Mean(), TxnDurationMeanMs: r.Summary.TxnDurationStats.Mean()}
	if r.Segment != nil {
		s.Topic = r.Segment.Topic
		s.Type = r.Segment.Type.String()
	}
	return s
}

func printJSON(r multi.Result) {
	raw, err := json.Marshal(summaryView(r))
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal %s: %v\n", r.Path, err)
		return
	}
	fmt.Println(string(raw))
}

func printText(r multi.Result) {
	s := r.Summary
	fmt.Printf("%s\n", r.Path)
	if r.Segment != nil {
		fmt.Printf("  type=%s topic=%q\n", r.Segment.Type, r.Segment.Topic)
	}
	fmt.Printf("  committed=%d aborted=%d open=%d empty=%d\n",
		s.Committed, s.Aborted, len(s.OpenTransactions), len(s.EmptyTransactions))
	fmt.Printf("  txnSizeMean=%.1f txnDurationMeanMs=%.1f\n",
		s.TxnSizeStats.Mean(), s.TxnDurationStats.Mean())
	fmt.Printf("  %d records, largest batch %d bytes\n", s.RecordCount, s.MaxBatchSize)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("KAFSCALE_DUMPSCAN_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("component", "dumpscan")
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
