package s3store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/interfaces/infra"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

var _ infra.ObjectStore = (*Store)(nil)

type Options struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	RoleARN      string
	UsePathStyle bool
}

type Store struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// New создает загрузчик. Без статических ключей используется цепочка учетных данных AWS по умолчанию.
func New(ctx context.Context, log *zap.Logger, opts Options) (*Store, error) {
	var creds aws.CredentialsProvider
	if opts.AccessKey != "" {
		creds = credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
	}

	cfg, err := loadAWSConfig(ctx, opts, creds)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: newClient(cfg, opts),
		bucket: opts.Bucket,
		logger: log,
	}, nil
}

func (s *Store) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if key == "" {
		return ErrObjectKeyEmpty
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.logger.Info("объект загружен в S3",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)

	return nil
}

func loadAWSConfig(ctx context.Context, opts Options, creds aws.CredentialsProvider) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
		config.WithRetryMaxAttempts(1),
	}
	if creds != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: %v", ErrAWSConfig, err)
	}

	return cfg, nil
}

func newClient(cfg aws.Config, opts Options) *s3.Client {
	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			// S3-совместимые хранилища не всегда принимают новые контрольные суммы
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})
}
