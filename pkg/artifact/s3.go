package artifact

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/neochain/pkg/logging"
)

// S3Options locate the bucket that receives run artifacts.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // empty means the AWS endpoint for Region
	AccessKey string // empty means the default credential chain
	SecretKey string
	PathStyle bool
}

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client from opts and the default AWS configuration.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(opts.Endpoint))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
	}), nil
}

// Publisher uploads run artifacts under <prefix>/<run id>/.
type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger logging.Logger
}

// NewPublisher creates a publisher writing to bucket through client.
func NewPublisher(client ObjectPutter, bucket, prefix string, logger logging.Logger) *Publisher {
	return &Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logging.OrNop(logger).With(logging.Component("publish")),
	}
}

// ObjectKey returns the key a file is stored under for a run.
func (p *Publisher) ObjectKey(runID, file string) string {
	return path.Join(p.prefix, runID, filepath.Base(file))
}

// Publish uploads each file and returns the keys written, in order. Empty
// paths are skipped. The first failure stops the upload.
func (p *Publisher) Publish(ctx context.Context, runID string, files ...string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		key := p.ObjectKey(runID, file)
		if err := p.put(ctx, key, file); err != nil {
			return keys, err
		}
		p.logger.Info("artifact published",
			logging.RunID(runID),
			logging.Path(file),
			logging.String("bucket", p.bucket),
			logging.String("key", key))
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *Publisher) put(ctx context.Context, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", filepath.Base(file), p.bucket, key, err)
	}
	return nil
}

func contentType(file string) string {
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
