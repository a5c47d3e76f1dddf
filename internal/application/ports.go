package application

import (
	"context"
	"io"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
)

// Publisher enqueues JSON jobs (RabbitMQ in production).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AccountIndex keeps the account search index in sync.
type AccountIndex interface {
	IndexAccount(ctx context.Context, a *entity.Account) error
	SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// ObjectStore uploads objects and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
