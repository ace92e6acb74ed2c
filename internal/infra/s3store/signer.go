package s3store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"

	"github.com/sunr3d/cabinet-bridge/internal/interfaces/infra"
)

var (
	newAssumeRoleProvider = func(cfg aws.Config, roleARN string) aws.CredentialsProvider {
		return stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), roleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = "cabinet-bridge-signer"
		})
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

var _ infra.Signer = (*presignSigner)(nil)

type presignSigner struct {
	presign *s3.PresignClient
	bucket  string
	mode    string
	logger  *zap.Logger
}

// NewDirectSigner подписывает ссылки статическим ключом доступа.
func NewDirectSigner(ctx context.Context, log *zap.Logger, opts Options) (infra.Signer, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, ErrNoStaticKeys
	}

	creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
	cfg, err := loadAWSConfig(ctx, opts, creds)
	if err != nil {
		return nil, err
	}

	return &presignSigner{
		presign: s3.NewPresignClient(newClient(cfg, opts)),
		bucket:  opts.Bucket,
		mode:    "direct",
		logger:  log,
	}, nil
}

// NewDelegatedSigner берет окружающую идентичность из цепочки по умолчанию
// и подписывает ссылки учетными данными роли, полученными через STS AssumeRole.
func NewDelegatedSigner(ctx context.Context, log *zap.Logger, opts Options) (infra.Signer, error) {
	if opts.RoleARN == "" {
		return nil, ErrNoSignerRole
	}

	cfg, err := loadAWSConfig(ctx, opts, nil)
	if err != nil {
		return nil, err
	}
	cfg.Credentials = aws.NewCredentialsCache(newAssumeRoleProvider(cfg, opts.RoleARN))

	return &presignSigner{
		presign: s3.NewPresignClient(newClient(cfg, opts)),
		bucket:  opts.Bucket,
		mode:    "delegated",
		logger:  log,
	}, nil
}

func (s *presignSigner) SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrObjectKeyEmpty
	}

	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPresignFailed, err)
	}

	s.logger.Info("ссылка подписана",
		zap.String("mode", s.mode),
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return req.URL, nil
}
