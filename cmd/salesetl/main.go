// Command salesetl extracts the two regional order extracts, derives sales
// figures, replaces the sales table with the result and prints a validation
// report.
//
// Usage:
//
//	salesetl [-config pipeline.json] [-region-a path] [-region-b path]
//	         [-storage sqlite] [-db sales_data.db] [-table sales_data]
//	         [-metrics-backend none|pushgateway|datadog] [-validate] [-probe] [-v]
//
// Settings are resolved as defaults < config file < SALES_ETL_* environment
// < explicit flags. The exit status is 0 when the run completes or stops
// early for lack of data, and 1 on any stage failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"salesetl/internal/config"
	"salesetl/internal/datasource"
	"salesetl/internal/datasource/s3ds"
	"salesetl/internal/etl"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/datadog"
	"salesetl/internal/metrics/prompush"
	pcsv "salesetl/internal/parser/csv"
	"salesetl/internal/probe"
	"salesetl/internal/sales"
	"salesetl/internal/storage"

	// register all backends with the storage factory.
	_ "salesetl/internal/storage/all"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	fs := flag.NewFlagSet("salesetl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath        = fs.String("config", "", "pipeline config JSON path (optional)")
		regionA        = fs.String("region-a", "", "region A extract: path, file:// or s3:// URL")
		regionB        = fs.String("region-b", "", "region B extract: path, file:// or s3:// URL")
		storageKind    = fs.String("storage", "", "storage backend: "+fmt.Sprint(storage.ListKinds()))
		dsn            = fs.String("db", "", "storage DSN; a file path for sqlite")
		table          = fs.String("table", "", "destination table")
		metricsBackend = fs.String("metrics-backend", "", "metrics backend (none, pushgateway, datadog)")
		pushGatewayURL = fs.String("pushgateway-url", "", "Pushgateway base URL")
		datadogAddr    = fs.String("datadog-addr", "", "DogStatsD address")
		validate       = fs.Bool("validate", false, "validate the configuration and exit")
		probeOnly      = fs.Bool("probe", false, "summarize both extracts without loading and exit")
		verbose        = fs.Bool("v", false, "enable verbose logs")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	p := config.Default()
	if *cfgPath != "" {
		var err error
		if p, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if err := config.ApplyEnv(&p); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	// Flags win only when given explicitly.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "region-a":
			p.Sources.RegionA = *regionA
		case "region-b":
			p.Sources.RegionB = *regionB
		case "storage":
			p.Storage.Kind = *storageKind
		case "db":
			p.Storage.DSN = *dsn
		case "table":
			p.Storage.Table = *table
		case "metrics-backend":
			p.Metrics.Backend = *metricsBackend
		case "pushgateway-url":
			p.Metrics.PushgatewayURL = *pushGatewayURL
		case "datadog-addr":
			p.Metrics.DatadogAddr = *datadogAddr
		}
	})

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		logger.Printf("Configuration is invalid")
		return 1
	}
	if *validate {
		logger.Printf("Configuration is valid")
		return 0
	}

	ctx := context.Background()
	start := time.Now()

	s3cfg := s3ds.Config{
		Region:    p.Sources.S3.Region,
		Endpoint:  p.Sources.S3.Endpoint,
		PathStyle: p.Sources.S3.PathStyle,
	}
	srcA, err := datasource.ForLocation(ctx, p.Sources.RegionA, s3cfg)
	if err != nil {
		logger.Printf("region A source: %v", err)
		return 1
	}
	srcB, err := datasource.ForLocation(ctx, p.Sources.RegionB, s3cfg)
	if err != nil {
		logger.Printf("region B source: %v", err)
		return 1
	}

	if *probeOnly {
		return runProbe(ctx, stdout, logger, parserOptions(p.Parser), srcA, srcB)
	}

	if flush := setupMetrics(p, logger, *verbose); flush != nil {
		defer flush()
	}

	if *verbose {
		logger.Printf("pipeline: region_a=%s region_b=%s storage=%s table=%s",
			p.Sources.RegionA, p.Sources.RegionB, p.Storage.Kind, p.Storage.Table)
	}

	session := etl.NewSession(
		etl.StorageOpener(storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DSN}),
		sales.TableDef(p.Storage.Table),
	)
	opts := []etl.Option{}
	if *verbose {
		opts = append(opts, etl.WithDebug(logger))
	}
	pipe := etl.New(etl.Config{
		Job:     p.Job,
		RegionA: srcA,
		RegionB: srcB,
		Parser:  pcsv.NewParser(parserOptions(p.Parser)),
	}, session, log.New(stdout, "", 0), opts...)

	sum, err := pipe.Run(ctx)
	if *verbose {
		logger.Printf("completed in %s reached=%s loaded=%d",
			time.Since(start).Truncate(time.Millisecond), sum.Reached, sum.Loaded)
	}
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	return 0
}

// runProbe prints a summary of each extract. It fails when an extract cannot
// be read or lacks a required column.
func runProbe(ctx context.Context, stdout io.Writer, logger *log.Logger, opt pcsv.Options, srcs ...datasource.Source) int {
	code := 0
	for i, src := range srcs {
		label := "Region " + []string{sales.RegionA, sales.RegionB}[i]
		rep, err := probe.Probe(ctx, src, probe.Options{Parser: opt})
		if err != nil {
			logger.Printf("%s: %v", label, err)
			code = 1
			continue
		}
		if err := probe.Write(stdout, label, rep); err != nil {
			logger.Printf("write probe report: %v", err)
			return 1
		}
		if !rep.OK() {
			code = 1
		}
	}
	return code
}

func parserOptions(o config.Options) pcsv.Options {
	return pcsv.Options{
		Comma:      o.Rune("comma", ','),
		TrimSpace:  o.Bool("trim_space", false),
		LazyQuotes: o.Bool("lazy_quotes", false),
		HeaderMap:  o.StringMap("header_map"),
	}
}

// setupMetrics installs the configured backend and returns its flush func.
// A backend that cannot be created leaves metrics disabled; it never fails
// the run.
func setupMetrics(p config.Pipeline, logger *log.Logger, verbose bool) func() {
	var b metrics.Backend
	switch p.Metrics.Backend {
	case "pushgateway":
		pb, err := prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
		if err != nil {
			logger.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return nil
		}
		b = pb
	case "datadog":
		addr := p.Metrics.DatadogAddr
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "salesetl.",
			GlobalTags: []string{"job:" + p.Job},
		})
		if err != nil {
			logger.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return nil
		}
		b = db
	default:
		if verbose {
			logger.Printf("metrics: disabled (backend=%q)", p.Metrics.Backend)
		}
		return nil
	}

	if verbose {
		logger.Printf("metrics: backend=%s job_name=%s", p.Metrics.Backend, p.Job)
	}
	prev := metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Printf("metrics: flush error: %v", err)
		}
		metrics.SetBackend(prev)
	}
}
