package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Destination uploads each export as its own object under a key prefix.
type S3Destination struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Destination creates an S3 destination. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

func (d *S3Destination) String() string {
	return "s3://" + d.bucket + "/" + d.prefix
}

// objectKey returns <prefix>YYYY/MM/DD/<batch>.jsonl.
func (d *S3Destination) objectKey(batchID string) string {
	return path.Join(d.prefix, d.now().UTC().Format("2006/01/02"), batchID+".jsonl")
}

// Write uploads the export.
func (d *S3Destination) Write(ctx context.Context, batch Batch) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.objectKey(batch.ID)),
		Body:        bytes.NewReader(batch.Data),
		ContentType: aws.String("application/x-ndjson"),
		Metadata: map[string]string{
			"event-count": fmt.Sprint(batch.Events),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}
