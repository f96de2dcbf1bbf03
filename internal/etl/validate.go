package etl

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"salesetl/internal/ddl"
	"salesetl/internal/sales"
)

// RegionSales is SUM(total_sales) for one region.
type RegionSales struct {
	Region string
	Sales  float64
}

// Duplicate is an OrderId stored more than once.
type Duplicate struct {
	OrderID string
	Count   int64
}

// Report holds the validation aggregates of the persisted table.
type Report struct {
	Total    int64
	ByRegion []RegionSales

	// Average is nil when the table has no rows.
	Average *float64

	Duplicates []Duplicate
}

// Validate runs read-only aggregates against the persisted table. It only
// runs after a successful Load.
func (p *Pipeline) Validate(ctx context.Context, loaded Result[int64]) (res Result[Report]) {
	start := time.Now()
	defer func() { p.record(StageValidate, res.Status, start) }()

	if !loaded.Ok() {
		p.out.Print("No data loaded; skipping validation")
		return Skipped[Report]("no data loaded")
	}

	failed := func(err error) Result[Report] {
		p.out.Printf("Error validating data: %v", err)
		return Failed[Report](fail(KindValidation, StageValidate, err))
	}

	repo, err := p.session.Repository(ctx)
	if err != nil {
		return failed(err)
	}
	q := newQueries(p.session.Table(), repo.Dialect())

	var rep Report

	rows, err := repo.QueryRows(ctx, q.count)
	if err != nil {
		return failed(fmt.Errorf("count: %w", err))
	}
	if len(rows) != 1 || len(rows[0]) != 1 {
		return failed(fmt.Errorf("count: unexpected result shape"))
	}
	if rep.Total, err = toInt64(rows[0][0]); err != nil {
		return failed(fmt.Errorf("count: %w", err))
	}
	p.out.Printf("Total Records: %d", rep.Total)

	rows, err = repo.QueryRows(ctx, q.byRegion)
	if err != nil {
		return failed(fmt.Errorf("sales by region: %w", err))
	}
	p.out.Print("Total Sales by Region:")
	for _, r := range rows {
		if len(r) != 2 {
			return failed(fmt.Errorf("sales by region: unexpected result shape"))
		}
		v, err := toFloat64(r[1])
		if err != nil {
			return failed(fmt.Errorf("sales by region: %w", err))
		}
		rs := RegionSales{Region: toString(r[0]), Sales: v}
		rep.ByRegion = append(rep.ByRegion, rs)
		p.out.Printf("Region %s: %s", rs.Region, formatFloat(rs.Sales))
	}

	rows, err = repo.QueryRows(ctx, q.average)
	if err != nil {
		return failed(fmt.Errorf("average: %w", err))
	}
	if len(rows) != 1 || len(rows[0]) != 1 {
		return failed(fmt.Errorf("average: unexpected result shape"))
	}
	if rows[0][0] != nil {
		avg, err := toFloat64(rows[0][0])
		if err != nil {
			return failed(fmt.Errorf("average: %w", err))
		}
		rep.Average = &avg
		p.out.Printf("Average Sales per Transaction: %s", formatFloat(avg))
	} else {
		p.out.Print("Average Sales per Transaction: None")
	}

	rows, err = repo.QueryRows(ctx, q.duplicates)
	if err != nil {
		return failed(fmt.Errorf("duplicates: %w", err))
	}
	for _, r := range rows {
		if len(r) != 2 {
			return failed(fmt.Errorf("duplicates: unexpected result shape"))
		}
		n, err := toInt64(r[1])
		if err != nil {
			return failed(fmt.Errorf("duplicates: %w", err))
		}
		rep.Duplicates = append(rep.Duplicates, Duplicate{OrderID: toString(r[0]), Count: n})
	}
	if len(rep.Duplicates) == 0 {
		p.out.Print("Duplicate OrderIds: None")
	} else {
		parts := make([]string, len(rep.Duplicates))
		for i, d := range rep.Duplicates {
			parts[i] = fmt.Sprintf("%s (%d)", d.OrderID, d.Count)
		}
		p.out.Printf("Duplicate OrderIds: %s", strings.Join(parts, ", "))
	}

	return OK(rep)
}

type queries struct {
	count, byRegion, average, duplicates string
}

func newQueries(def ddl.TableDef, d ddl.Dialect) queries {
	table := ddl.QuoteFQN(def.FQN, d)
	region := d.QuoteIdent(sales.Region)
	total := d.QuoteIdent(sales.TotalSales)
	id := d.QuoteIdent(sales.OrderID)
	var q queries
	q.count = "SELECT COUNT(*) FROM " + table
	q.byRegion = fmt.Sprintf("SELECT %s, SUM(%s) FROM %s GROUP BY %s ORDER BY %s",
		region, total, table, region, region)
	q.average = fmt.Sprintf("SELECT AVG(%s) FROM %s", total, table)
	q.duplicates = fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s HAVING COUNT(*) > 1 ORDER BY %s",
		id, table, id, id)
	return q
}

// Drivers differ in the Go types they return for aggregates (int64, float64,
// or decimal text), so the converters accept all of them.

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected integer value %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	default:
		return 0, fmt.Errorf("unexpected numeric value %T", v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return "None"
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat prints v the way a Python float prints: the shortest exact
// digits, a trailing ".0" on integral values, and exponent notation when the
// decimal exponent is below -4 or at least 16 ("1e+16", "1.5e-05").
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(v, 'e', -1, 64)
	if exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:]); err == nil && v != 0 && (exp < -4 || exp >= 16) {
		return e
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
