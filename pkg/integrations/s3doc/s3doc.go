// Package s3doc keeps the sync document as a single JSON object in an
// S3-compatible bucket. Remote changes are detected by polling the ETag.
package s3doc

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	sched "pixeltrader/pkg/integrations/scheduler"
	"pixeltrader/pkg/types/remote"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultKey          = "pixel_trader/user_data.json"
	DefaultPollInterval = 15 * time.Second
)

var ErrInvalidStoreConfig = errors.New("invalid s3 document store config")

var _ remote.RemoteStore = (*Store)(nil)

// ObjectAPI is the subset of the S3 client the store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type ClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient builds an S3 client. A custom endpoint switches to path-style
// addressing, which most S3-compatible services expect.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type Store struct {
	client       ObjectAPI
	bucket       string
	key          string
	pollInterval time.Duration
	logger       zerolog.Logger

	mu       sync.Mutex
	lastETag string
}

type Option func(*Store)

func WithClient(c ObjectAPI) Option {
	return func(s *Store) {
		s.client = c
	}
}

func WithBucket(bucket string) Option {
	return func(s *Store) {
		s.bucket = bucket
	}
}

func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		s.pollInterval = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l.With().Str("component", "s3doc").Logger()
	}
}

func (s *Store) IsValid() error {
	switch {
	case s.client == nil:
		return errors.Wrap(ErrInvalidStoreConfig, "client cannot be nil")
	case s.bucket == "":
		return errors.Wrap(ErrInvalidStoreConfig, "bucket cannot be empty")
	case s.key == "":
		return errors.Wrap(ErrInvalidStoreConfig, "key cannot be empty")
	case s.pollInterval <= 0:
		return errors.Wrap(ErrInvalidStoreConfig, "poll interval must be positive")
	default:
		return nil
	}
}

func New(opts ...Option) (*Store, error) {
	s := &Store{
		key:          DefaultKey,
		pollInterval: DefaultPollInterval,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.IsValid(); err != nil {
		return nil, err
	}
	return s, nil
}

func isMissing(err error) bool {
	var noKey *s3types.NoSuchKey
	var notFound *s3types.NotFound
	return errors.As(err, &noKey) || errors.As(err, &notFound)
}

func (s *Store) Load(ctx context.Context) (*remote.Document, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get sync document")
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sync document")
	}

	var doc remote.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode sync document")
	}
	return &doc, nil
}

func (s *Store) Save(ctx context.Context, doc remote.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode sync document")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to put sync document")
	}
	return nil
}

// Watch polls the object's ETag and delivers the document whenever it
// changes, starting with the current one. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, fn func(remote.Document)) error {
	poller, err := sched.New(
		sched.WithName("s3doc-watch"),
		sched.WithContext(ctx),
		sched.WithInterval(s.pollInterval),
		sched.WithImmediate(),
		sched.WithLogger(s.logger),
		sched.WithHandler(func() error { return s.poll(ctx, fn) }),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create poller")
	}
	if err := poller.Start(); err != nil {
		return errors.Wrap(err, "failed to start poller")
	}

	<-ctx.Done()
	poller.Stop()
	return ctx.Err()
}

func (s *Store) poll(ctx context.Context, fn func(remote.Document)) error {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isMissing(err) {
			return nil
		}
		return errors.Wrap(err, "failed to head sync document")
	}

	etag := aws.ToString(head.ETag)
	s.mu.Lock()
	unchanged := etag != "" && etag == s.lastETag
	s.mu.Unlock()
	if unchanged {
		return nil
	}

	doc, err := s.Load(ctx)
	if err != nil || doc == nil {
		return err
	}

	s.mu.Lock()
	s.lastETag = etag
	s.mu.Unlock()

	fn(*doc)
	return nil
}
