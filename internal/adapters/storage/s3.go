package storage

import (
	"context"
	"strings"

	"ipvault/internal/core/artifact"
	"ipvault/internal/core/fingerprint"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// S3Options configures an S3 compatible bucket
type S3Options struct {
	Bucket string
	Region string
	// Endpoint switches to path style addressing for MinIO or LocalStack
	Endpoint string
	Prefix   string
	// PublicURL is the base that objects are served from, empty means not public
	PublicURL string

	// static credentials; when empty the default AWS chain is used
	AccessKeyID     string
	SecretAccessKey string
}

// S3 stores artifacts under their content hash in a bucket
type S3 struct {
	client *s3.Client
	opts   S3Options
	log    logger.Logger
}

// NewS3 loads AWS config and builds the bucket client
func NewS3(ctx context.Context, o S3Options) (*S3, error) {
	if strings.TrimSpace(o.Bucket) == "" {
		return nil, perr.InvalidArgf("s3 bucket is required")
	}
	if o.Region == "" {
		o.Region = "us-east-1"
	}
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})
	o.PublicURL = withSlash(o.PublicURL)
	return &S3{client: client, opts: o, log: *logger.Named("storage.s3")}, nil
}

// Name returns the backend label
func (b *S3) Name() string { return string(KindS3) }

// Put uploads unless an object with the same hash already exists
func (b *S3) Put(ctx context.Context, hash fingerprint.Hash, a artifact.Artifact) (string, error) {
	key := objectKey(b.opts.Prefix, hash)
	locator := s3Scheme + b.opts.Bucket + "/" + key

	if _, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.opts.Bucket),
		Key:    aws.String(key),
	}); err == nil {
		b.log.Debug().Str("key", key).Msg("object exists")
		return locator, nil
	}

	body, err := a.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(b.opts.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(ct),
		Metadata:    map[string]string{"sha256": hash.String()},
	}
	if a.Size > 0 {
		in.ContentLength = aws.Int64(a.Size)
	}
	if _, err := b.client.PutObject(ctx, in); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeBackend, "s3 put failed")
	}
	return locator, nil
}

// Resolve maps s3://bucket/key to the public base when one is configured
func (b *S3) Resolve(locator string) string {
	rest, ok := strings.CutPrefix(locator, s3Scheme+b.opts.Bucket+"/")
	if !ok || b.opts.PublicURL == "" {
		return ""
	}
	return b.opts.PublicURL + rest
}
