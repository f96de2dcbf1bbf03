// Package s3ds implements a data source that reads a single object from an
// S3-compatible store (AWS S3 or MinIO).
package s3ds

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Getter is the subset of *s3.Client used by Object.
type Getter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds client construction parameters. Credentials always come from
// the default chain (environment, shared config, instance role).
type Config struct {
	Region    string
	Endpoint  string // optional; custom endpoint such as MinIO
	PathStyle bool
}

// Object reads s3://Bucket/Key.
type Object struct {
	client Getter
	bucket string
	key    string
}

// NewObject binds an object to an existing client.
func NewObject(client Getter, bucket, key string) *Object {
	return &Object{client: client, bucket: bucket, key: key}
}

// New builds an S3 client from cfg and binds it to the object at loc
// ("s3://bucket/key").
func New(ctx context.Context, loc string, cfg Config) (*Object, error) {
	bucket, key, err := ParseURL(loc)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewObject(client, bucket, key), nil
}

// ParseURL splits "s3://bucket/path/to/key" into bucket and key.
func ParseURL(loc string) (bucket, key string, err error) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", "", fmt.Errorf("s3: parse %q: %w", loc, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("s3: %q is not an s3:// URL", loc)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3: %q needs both bucket and key", loc)
	}
	return bucket, key, nil
}

// String returns the s3:// URL of the object.
func (o *Object) String() string { return "s3://" + o.bucket + "/" + o.key }

// Open fetches the object and returns its body.
func (o *Object) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", o, err)
	}
	return out.Body, nil
}
