// Package etl drives the sales pipeline: Extract two regional CSV extracts,
// Transform them into deduplicated orders with derived sales figures, Load
// them into the sales table, and Validate the persisted result.
//
// Every stage returns a Result; a failed or skipped stage turns every later
// stage into a reported no-op. Human-readable status lines go to the
// pipeline's output logger.
package etl

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"salesetl/internal/datasource"
	"salesetl/internal/metrics"
	"salesetl/internal/parser"
	pcsv "salesetl/internal/parser/csv"
	"salesetl/internal/sales"
	"salesetl/internal/storage"
	"salesetl/internal/transformer"
	"salesetl/internal/transformer/builtin"
	"salesetl/pkg/records"
)

// State is a position in the pipeline state machine.
type State int

const (
	StateStart State = iota
	StateExtracted
	StateTransformed
	StateLoaded
	StateValidated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateExtracted:
		return "EXTRACTED"
	case StateTransformed:
		return "TRANSFORMED"
	case StateLoaded:
		return "LOADED"
	case StateValidated:
		return "VALIDATED"
	case StateClosed:
		return "CLOSED"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Config describes one run.
type Config struct {
	// Job labels metrics.
	Job string

	// RegionA and RegionB are the two extracts, in that order.
	RegionA datasource.Source
	RegionB datasource.Source

	// Parser reads both extracts. Nil uses the CSV parser with default
	// options.
	Parser parser.Parser
}

// Pipeline runs the four stages against one Session.
type Pipeline struct {
	cfg     Config
	session *Session
	out     *log.Logger
	debug   *log.Logger

	state       State
	transitions []State
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDebug sends diagnostic lines to l.
func WithDebug(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.debug = l
		}
	}
}

// New returns a pipeline that prints status lines to out and stores through
// session. A nil out discards status lines.
func New(cfg Config, session *Session, out *log.Logger, opts ...Option) *Pipeline {
	if out == nil {
		out = log.New(io.Discard, "", 0)
	}
	if cfg.Job == "" {
		cfg.Job = "sales_etl"
	}
	if cfg.Parser == nil {
		cfg.Parser = pcsv.NewParser(pcsv.Options{})
	}
	p := &Pipeline{
		cfg:     cfg,
		session: session,
		out:     out,
		debug:   log.New(io.Discard, "", 0),
		state:   StateStart,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// State returns the current state.
func (p *Pipeline) State() State { return p.state }

// Transitions returns every state entered so far, starting with START.
func (p *Pipeline) Transitions() []State {
	return append([]State{StateStart}, p.transitions...)
}

func (p *Pipeline) enter(s State) {
	p.state = s
	p.transitions = append(p.transitions, s)
	p.debug.Printf("pipeline: state=%s", s)
}

// Summary is what a completed Run reached.
type Summary struct {
	// Reached is the last state before CLOSED.
	Reached State
	Loaded  int64
	Report  *Report
}

// Run drives START → EXTRACTED → TRANSFORMED → LOADED → VALIDATED → CLOSED.
// A failed or skipped stage goes straight to CLOSED. The session is closed
// on every path, including a panic inside a stage, which is reported as a
// processing error.
func (p *Pipeline) Run(ctx context.Context) (sum Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.out.Printf("Processing error: %v", r)
			err = fail(KindProcessing, p.stageAfter(sum.Reached), fmt.Errorf("panic: %v", r))
		}
		if cerr := p.session.Close(); cerr != nil {
			p.out.Printf("Error closing connection: %v", cerr)
			if err == nil {
				err = cerr
			}
		}
		p.enter(StateClosed)
	}()

	sum.Reached = StateStart

	raw := p.Extract(ctx)
	if !raw.Ok() {
		p.out.Print("Failed to extract data. Please check the input files.")
		return sum, resultErr(raw)
	}
	p.enter(StateExtracted)
	sum.Reached = StateExtracted

	clean := p.Transform(raw)
	if !clean.Ok() {
		return sum, resultErr(clean)
	}
	p.enter(StateTransformed)
	sum.Reached = StateTransformed

	loaded := p.Load(ctx, clean)
	if !loaded.Ok() {
		return sum, resultErr(loaded)
	}
	p.enter(StateLoaded)
	sum.Reached = StateLoaded
	sum.Loaded = loaded.Value

	report := p.Validate(ctx, loaded)
	if !report.Ok() {
		return sum, resultErr(report)
	}
	p.enter(StateValidated)
	sum.Reached = StateValidated
	sum.Report = &report.Value
	return sum, nil
}

func (p *Pipeline) stageAfter(s State) Stage {
	switch s {
	case StateStart:
		return StageExtract
	case StateExtracted:
		return StageTransform
	case StateTransformed:
		return StageLoad
	default:
		return StageValidate
	}
}

// resultErr returns the failure of r, or nil for a skipped stage.
func resultErr[T any](r Result[T]) error {
	if r.Status == StatusFailed {
		return r.Err
	}
	return nil
}

func (p *Pipeline) record(stage Stage, status Status, start time.Time) {
	d := time.Since(start)
	metrics.RecordStage(p.cfg.Job, string(stage), status.String(), d)
	p.debug.Printf("pipeline: stage=%s status=%s took=%s", stage, status, d)
}

// Extract reads both regional extracts into one working table.
//
// Each extract has its numeric columns coerced, its key columns trimmed, and
// is tagged with its region before the two are concatenated, region A first.
func (p *Pipeline) Extract(ctx context.Context) (res Result[*records.Table]) {
	start := time.Now()
	defer func() { p.record(StageExtract, res.Status, start) }()

	sources := []struct {
		region string
		src    datasource.Source
	}{
		{sales.RegionA, p.cfg.RegionA},
		{sales.RegionB, p.cfg.RegionB},
	}

	var tables []*records.Table
	failed := func(kind Kind, err error) Result[*records.Table] {
		p.out.Printf("Error extracting data: %v", err)
		for i, t := range tables {
			p.out.Printf("Columns in Region %s: %v", sources[i].region, t.Columns)
		}
		return Failed[*records.Table](fail(kind, StageExtract, err))
	}

	prepare := func(region string) transformer.Chain {
		return transformer.Chain{
			builtin.Coerce{Columns: sales.NumericColumns},
			builtin.Normalize{Columns: sales.KeyColumns},
			builtin.Tag{Column: sales.Region, Value: region},
		}
	}

	for _, s := range sources {
		if s.src == nil {
			return failed(KindExtraction, fmt.Errorf("region %s: no source configured", s.region))
		}
		t, err := p.read(ctx, s.src)
		if err != nil {
			return failed(KindExtraction, fmt.Errorf("region %s: %w", s.region, err))
		}
		tables = append(tables, t)
		if err := prepare(s.region).Apply(t); err != nil {
			return failed(KindSchema, fmt.Errorf("region %s: %w", s.region, err))
		}
	}

	combined := records.Concat(tables...)
	if err := (builtin.Require{Columns: sales.RequiredColumns}).Apply(combined); err != nil {
		return failed(KindSchema, err)
	}

	metrics.RecordRows(p.cfg.Job, "extracted", int64(combined.Len()))
	p.debug.Printf("extract: rows=%d columns=%v", combined.Len(), combined.Columns)
	return OK(combined)
}

func (p *Pipeline) read(ctx context.Context, src datasource.Source) (*records.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return p.cfg.Parser.Parse(rc)
}

// Transform derives total_sales and net_sale, keeps the first row of every
// OrderId, and drops rows whose net_sale is not positive.
func (p *Pipeline) Transform(in Result[*records.Table]) (res Result[*records.Table]) {
	start := time.Now()
	defer func() { p.record(StageTransform, res.Status, start) }()

	t, ok := in.Get()
	if !ok || t == nil {
		p.out.Print("No data to transform")
		return Skipped[*records.Table]("no data to transform")
	}

	derive := transformer.Chain{
		builtin.Product{Out: sales.TotalSales, Left: sales.QuantityOrdered, Right: sales.ItemPrice},
		builtin.Difference{Out: sales.NetSale, Left: sales.TotalSales, Right: sales.PromotionDiscount},
	}
	dedup := builtin.DeDup{Keys: []string{sales.OrderID}, Policy: "keep-first"}
	positive := builtin.Positive{Column: sales.NetSale}

	failed := func(err error) Result[*records.Table] {
		p.out.Printf("Error transforming data: %v", err)
		for _, line := range t.ColumnTypes() {
			p.out.Print(line)
		}
		return Failed[*records.Table](fail(KindTransform, StageTransform, err))
	}

	if err := derive.Apply(t); err != nil {
		return failed(err)
	}
	before := t.Len()
	if err := dedup.Apply(t); err != nil {
		return failed(err)
	}
	dupes := before - t.Len()
	before = t.Len()
	if err := positive.Apply(t); err != nil {
		return failed(err)
	}
	nonPositive := before - t.Len()

	metrics.RecordRows(p.cfg.Job, "duplicates_dropped", int64(dupes))
	metrics.RecordRows(p.cfg.Job, "non_positive_dropped", int64(nonPositive))
	p.debug.Printf("transform: rows=%d duplicates_dropped=%d non_positive_dropped=%d", t.Len(), dupes, nonPositive)
	return OK(t)
}

// Load replaces the contents of the sales table with the working table.
func (p *Pipeline) Load(ctx context.Context, in Result[*records.Table]) (res Result[int64]) {
	start := time.Now()
	defer func() { p.record(StageLoad, res.Status, start) }()

	t, ok := in.Get()
	if !ok || t.Len() == 0 {
		p.out.Print("No data to load")
		return Skipped[int64]("no data to load")
	}

	failed := func(err error) Result[int64] {
		p.out.Printf("Error loading data: %v", err)
		return Failed[int64](fail(KindLoad, StageLoad, err))
	}

	repo, err := p.session.Repository(ctx)
	if err != nil {
		return failed(err)
	}
	def := p.session.Table()
	cols := def.ColumnNames()
	n, err := repo.ReplaceRows(ctx, def.FQN, cols, storage.ProjectRows(cols, t.Rows))
	if err != nil {
		return failed(err)
	}

	metrics.RecordRows(p.cfg.Job, "loaded", n)
	p.out.Printf("Loaded %d records into the database", n)
	return OK(n)
}
