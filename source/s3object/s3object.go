// Package s3object fetches the mapping file from an S3-compatible object store (AWS S3 or MinIO).
package s3object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/karupanerura/cts2-mapentry/source/flatfile"
)

// Scheme is the URL scheme of object locations.
const Scheme = "s3"

// ErrInvalidURL is returned by ParseURL for anything but s3://bucket/key.
var ErrInvalidURL = errors.New("s3object: invalid object URL")

// GetObjectAPI is the subset of *s3.Client used by Opener.
type GetObjectAPI interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ GetObjectAPI = (*s3.Client)(nil)

// Config holds the client construction parameters.
type Config struct {
	Region   string
	Endpoint string // optional; if set enables custom endpoint (e.g. MinIO)

	// Static credentials are optional; the default credentials chain is used otherwise.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	PathStyle bool

	// HTTPClient overrides the transport of the client.
	HTTPClient *http.Client
}

// NewClient creates an S3 client from cfg.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3object: load config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	}), nil
}

// IsURL reports whether location names an object rather than a local file.
func IsURL(location string) bool {
	return strings.HasPrefix(location, Scheme+"://")
}

// ParseURL splits s3://bucket/key into its bucket and key.
func ParseURL(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != Scheme {
		return "", "", fmt.Errorf("%w: scheme must be %s: %s", ErrInvalidURL, Scheme, location)
	}
	bucket, key = u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: bucket and key required: %s", ErrInvalidURL, location)
	}
	return bucket, key, nil
}

// Opener returns a flatfile.Opener that streams the object body.
func Opener(client GetObjectAPI, bucket, key string) flatfile.Opener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
		if err != nil {
			return nil, err
		}
		return out.Body, nil
	}
}

// NewSource creates a flat-file source reading s3://bucket/key through client.
func NewSource(client GetObjectAPI, location string, opts flatfile.ParseOptions) (*flatfile.Source, error) {
	bucket, key, err := ParseURL(location)
	if err != nil {
		return nil, err
	}
	return &flatfile.Source{Name: location, Open: Opener(client, bucket, key), Options: opts}, nil
}
