package infra

import (
	"context"
	"time"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ObjectStore --output=../../../mocks
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// Signer выдает GET-ссылку на объект с ограниченным сроком жизни.
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Signer --output=../../../mocks
type Signer interface {
	SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
