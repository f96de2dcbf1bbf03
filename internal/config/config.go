// Package config defines the JSON-serializable configuration model for the
// sales pipeline, its built-in defaults, and the environment overlay.
//
// Precedence, lowest first: Default(), a JSON file (Load), SALES_ETL_*
// environment variables (ApplyEnv), then explicit command-line flags applied
// by the caller.
//
// Example:
//
//	{
//	  "job": "sales_etl",
//	  "sources": { "region_a": "order_region_a.csv", "region_b": "s3://bucket/b.csv" },
//	  "parser":  { "comma": ",", "trim_space": true, "header_map": { "Order Id": "OrderId" } },
//	  "storage": { "kind": "sqlite", "dsn": "sales_data.db", "table": "sales_data" },
//	  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SALES_ETL_"

// Pipeline is the top-level configuration object.
type Pipeline struct {
	// Job names the run for logs and metrics.
	Job string `json:"job" env:"JOB"`

	// Sources locates the two regional extracts.
	Sources Sources `json:"sources" envPrefix:"SOURCE_"`

	// Parser is a free-form options bag for the CSV parser. Recognized keys:
	//   comma (string), trim_space (bool), lazy_quotes (bool), header_map (object)
	Parser Options `json:"parser"`

	// Storage selects the relational store.
	Storage Storage `json:"storage" envPrefix:"STORAGE_"`

	// Metrics selects the metrics backend.
	Metrics Metrics `json:"metrics" envPrefix:"METRICS_"`
}

// Sources holds the region A and region B locations. A location is a local
// path, a file:// URL or an s3://bucket/key URL.
type Sources struct {
	RegionA string `json:"region_a" env:"REGION_A"`
	RegionB string `json:"region_b" env:"REGION_B"`

	// S3 configures the client used for s3:// locations.
	S3 S3 `json:"s3" envPrefix:"S3_"`
}

// S3 holds S3 client settings. Credentials come from the AWS default chain.
type S3 struct {
	Region    string `json:"region" env:"REGION"`
	Endpoint  string `json:"endpoint" env:"ENDPOINT"`
	PathStyle bool   `json:"path_style" env:"PATH_STYLE"`
}

// Storage selects the sink.
type Storage struct {
	// Kind is one of "sqlite", "postgres", "mssql", "mysql".
	Kind string `json:"kind" env:"KIND"`

	// DSN is handed to the driver unchanged; for sqlite it is a file path.
	DSN string `json:"dsn" env:"DSN"`

	// Table is the destination table, optionally "schema.table".
	Table string `json:"table" env:"TABLE"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is one of "none", "pushgateway", "datadog".
	Backend        string `json:"backend" env:"BACKEND"`
	PushgatewayURL string `json:"pushgateway_url" env:"PUSHGATEWAY_URL"`
	DatadogAddr    string `json:"datadog_addr" env:"DATADOG_ADDR"`
}

// Default returns the built-in configuration.
func Default() Pipeline {
	return Pipeline{
		Job: "sales_etl",
		Sources: Sources{
			RegionA: "order_region_a.csv",
			RegionB: "order_region_b.csv",
		},
		Parser: Options{},
		Storage: Storage{
			Kind:  "sqlite",
			DSN:   "sales_data.db",
			Table: "sales_data",
		},
		Metrics: Metrics{Backend: "none"},
	}
}

// Load decodes the JSON file at path over Default(). Keys absent from the
// file keep their default values.
func Load(path string) (Pipeline, error) {
	p := Default()
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("decode config %s: %w", path, err)
	}
	if p.Parser == nil {
		p.Parser = Options{}
	}
	return p, nil
}

// ApplyEnv overlays SALES_ETL_* environment variables onto p. Unset
// variables leave the corresponding field untouched, e.g.
// SALES_ETL_STORAGE_DSN, SALES_ETL_SOURCE_REGION_A, SALES_ETL_METRICS_BACKEND.
func ApplyEnv(p *Pipeline) error {
	if err := env.ParseWithOptions(p, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It performs only minimal type coercion and returns the provided default when
// a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object.
// Non-string values are ignored. Returns an empty map when the key is missing
// or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null object into a non-nil, empty map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
