package repo

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/shaiso/Cloudlet/internal/domain"
)

// Store — общий интерфейс ResourceRepo и MemoryRepo.
type Store interface {
	Create(ctx context.Context, res *domain.Resource) error
	Get(ctx context.Context, service, kind string, id uuid.UUID) (*domain.Resource, error)
	List(ctx context.Context, service, kind string, limit int, after *domain.PageToken) ([]domain.Resource, *domain.PageToken, error)
	Update(ctx context.Context, res *domain.Resource) error
	Delete(ctx context.Context, service, kind string, id uuid.UUID) error
}

// StoreMemory — значение STORE для хранилища в памяти.
const StoreMemory = "memory"

// OpenStore открывает хранилище по переменной STORE: "memory" — MemoryRepo,
// иначе Postgres по DB_URL со схемой. Возвращаемая функция закрывает пул.
func OpenStore(ctx context.Context, logger *slog.Logger) (Store, func(), error) {
	if os.Getenv("STORE") == StoreMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return NewMemoryRepo(), func() {}, nil
	}

	pool, err := NewPool(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("connected to database")
	return NewResourceRepo(pool), pool.Close, nil
}
