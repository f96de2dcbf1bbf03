package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "parser.comma"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether issues contains at least one SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate p; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	issues = append(issues, validateSources(p.Sources)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

func validateSources(s Sources) []Issue {
	var issues []Issue

	for _, src := range []struct{ path, loc string }{
		{"sources.region_a", s.RegionA},
		{"sources.region_b", s.RegionB},
	} {
		if strings.TrimSpace(src.loc) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     src.path,
				Message:  "source location must not be empty",
			})
		}
	}
	if s.RegionA != "" && strings.TrimSpace(s.RegionA) == strings.TrimSpace(s.RegionB) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sources",
			Message:  fmt.Sprintf("region_a and region_b both read %q; every order will be tagged A and deduplicated", s.RegionA),
		})
	}
	return issues
}

func validateParser(o Options) []Issue {
	var issues []Issue

	if v, ok := o["comma"]; ok {
		s, isStr := v.(string)
		switch {
		case !isStr || utf8.RuneCountInString(s) != 1:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.comma",
				Message:  "comma must be a single character",
			})
		case s == `"` || s == "\r" || s == "\n" || s == "\uFFFD":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.comma",
				Message:  fmt.Sprintf("%q cannot be used as a field delimiter", s),
			})
		}
	}
	if v, ok := o["header_map"]; ok {
		if _, isMap := v.(map[string]any); !isMap {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.header_map",
				Message:  "header_map must be an object of string values",
			})
		}
	}
	for k := range o {
		switch k {
		case "comma", "trim_space", "lazy_quotes", "header_map":
		default:
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "parser." + k,
				Message:  "unknown parser option is ignored",
			})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	} else {
		known := map[string]struct{}{
			"sqlite":   {},
			"postgres": {},
			"mssql":    {},
			"mysql":    {},
		}
		if _, ok := known[s.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "storage.kind",
				Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
			})
		}
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.table",
			Message:  "storage.table must not be empty",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "datadog_addr is empty; 127.0.0.1:8125 will be used",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (want none, pushgateway or datadog)", m.Backend),
		})
	}
	return issues
}
