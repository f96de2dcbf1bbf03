package builtin

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"salesetl/internal/bitmap"
	"salesetl/pkg/records"
)

// DeDup is the policy-driven de-duplication transformer. It collapses rows
// sharing the same key and picks a winner per key:
//
//   - "keep-first"   : keep the earliest occurrence (default)
//   - "keep-last"    : keep the latest occurrence
//   - "most-complete": keep the row with the most non-empty fields; ties
//     break toward the later row
//
// Survivors keep their original relative order. Missing key values (nil or an
// absent map entry) are a valid key of their own, so all rows with a missing
// key collapse into one group.
type DeDup struct {
	// Keys are the columns that form the business key, e.g. ["OrderId"].
	Keys []string

	// Policy selects the winner among duplicates: "keep-first", "keep-last",
	// or "most-complete".
	Policy string

	// PreferFields add weight to "most-complete" scoring when non-empty.
	PreferFields []string
}

// Apply replaces t.Rows with the winning row of every key group.
func (d DeDup) Apply(t *records.Table) error {
	if len(d.Keys) == 0 {
		return fmt.Errorf("dedup: no key columns configured")
	}
	for _, k := range d.Keys {
		if !t.HasColumn(k) {
			return &MissingColumnError{Column: k}
		}
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-first"
	}
	switch policy {
	case "keep-first", "keep-last", "most-complete":
	default:
		return fmt.Errorf("dedup: unknown policy %q", d.Policy)
	}

	type slot struct {
		index int
		score int
	}

	prefer := make(map[string]struct{}, len(d.PreferFields))
	for _, f := range d.PreferFields {
		prefer[f] = struct{}{}
	}

	winners := make(map[xxh3.Uint128]slot, len(t.Rows))
	for i, r := range t.Rows {
		key := d.hashKey(r)
		prev, exists := winners[key]
		switch policy {
		case "keep-first":
			if !exists {
				winners[key] = slot{index: i}
			}
		case "keep-last":
			winners[key] = slot{index: i}
		case "most-complete":
			s := slot{index: i, score: completeness(r, prefer)}
			if !exists || s.score >= prev.score {
				winners[key] = s
			}
		}
	}

	if len(winners) == len(t.Rows) {
		return nil
	}

	keep := bitmap.New(len(t.Rows))
	for _, s := range winners {
		keep.Add(s.index)
	}
	t.Rows = compact(t.Rows, keep)
	return nil
}

// compact returns the rows whose positions are set in keep, in order.
func compact(rows []records.Record, keep *bitmap.Bitmap) []records.Record {
	kept := make([]records.Record, 0, keep.Count())
	for i, r := range rows {
		if keep.Has(i) {
			kept = append(kept, r)
		}
	}
	return kept
}

// hashKey folds the key columns into a 128-bit xxh3 digest. Values are joined
// with a unit separator; nil is encoded as a NUL byte.
func (d DeDup) hashKey(r records.Record) xxh3.Uint128 {
	var b strings.Builder
	for i, k := range d.Keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch v := r[k].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(v)
		default:
			b.WriteString(fmt.Sprint(v))
		}
	}
	return xxh3.HashString128(b.String())
}

// completeness counts non-empty values; preferred fields add a bonus.
func completeness(r records.Record, prefer map[string]struct{}) int {
	score, bonus := 0, 0
	for k, v := range r {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		score++
		if _, ok := prefer[k]; ok {
			bonus++
		}
	}
	return score*10 + bonus
}
