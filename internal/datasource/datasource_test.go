package datasource

import (
	"context"
	"testing"

	"salesetl/internal/datasource/file"
	"salesetl/internal/datasource/s3ds"
)

func TestForLocation(t *testing.T) {
	ctx := context.Background()

	src, err := ForLocation(ctx, "order_region_a.csv", s3ds.Config{})
	if err != nil {
		t.Fatalf("plain path: %v", err)
	}
	if l, ok := src.(*file.Local); !ok || l.Path() != "order_region_a.csv" {
		t.Fatalf("plain path source = %#v", src)
	}

	src, err = ForLocation(ctx, "file:///data/b.csv", s3ds.Config{})
	if err != nil {
		t.Fatalf("file URL: %v", err)
	}
	if l, ok := src.(*file.Local); !ok || l.Path() != "/data/b.csv" {
		t.Fatalf("file URL source = %#v", src)
	}

	for _, loc := range []string{"", "  ", "http://example.com/a.csv", "s3://bucket-only"} {
		if _, err := ForLocation(ctx, loc, s3ds.Config{}); err == nil {
			t.Fatalf("ForLocation(%q) error = nil", loc)
		}
	}
}

func TestForLocationS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	src, err := ForLocation(context.Background(), "s3://sales/a.csv", s3ds.Config{Endpoint: "http://127.0.0.1:9000", PathStyle: true})
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	obj, ok := src.(*s3ds.Object)
	if !ok {
		t.Fatalf("source = %T, want *s3ds.Object", src)
	}
	if obj.String() != "s3://sales/a.csv" {
		t.Fatalf("String() = %q", obj.String())
	}
}
