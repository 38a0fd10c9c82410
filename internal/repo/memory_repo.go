package repo

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shaiso/Cloudlet/internal/domain"
)

// MemoryRepo — хранилище ресурсов в памяти с той же семантикой, что у
// ResourceRepo: уникальность имени в пределах сервиса и типа, keyset по
// (created_at, id). Используется для локального запуска без Postgres и в тестах.
type MemoryRepo struct {
	mu        sync.RWMutex
	resources map[uuid.UUID]domain.Resource
}

// NewMemoryRepo создаёт пустое хранилище.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resources: make(map[uuid.UUID]domain.Resource)}
}

// Create сохраняет новый ресурс.
func (r *MemoryRepo) Create(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(res) {
		return ErrAlreadyExists
	}
	if _, ok := r.resources[res.ID]; ok {
		return ErrAlreadyExists
	}
	r.resources[res.ID] = clone(*res)
	return nil
}

// Get возвращает ресурс по ID в пределах сервиса и типа.
func (r *MemoryRepo) Get(_ context.Context, service, kind string, id uuid.UUID) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok || res.Service != service || res.Kind != kind {
		return nil, ErrNotFound
	}
	out := clone(res)
	return &out, nil
}

// List возвращает страницу ресурсов после курсора after.
func (r *MemoryRepo) List(_ context.Context, service, kind string, limit int, after *domain.PageToken) ([]domain.Resource, *domain.PageToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Resource
	for _, res := range r.resources {
		if res.Service != service || res.Kind != kind {
			continue
		}
		if after != nil && compareKey(res, *after) <= 0 {
			continue
		}
		matched = append(matched, clone(res))
	}
	slices.SortFunc(matched, func(a, b domain.Resource) int {
		return compareKey(a, domain.TokenAfter(&b))
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	matched = matched[:limit]
	next := domain.TokenAfter(&matched[limit-1])
	return matched, &next, nil
}

// Update сохраняет имя, статус и атрибуты ресурса.
func (r *MemoryRepo) Update(_ context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.resources[res.ID]
	if !ok || existing.Service != res.Service || existing.Kind != res.Kind {
		return ErrNotFound
	}
	if r.nameTaken(res) {
		return ErrAlreadyExists
	}
	updated := clone(*res)
	updated.CreatedAt = existing.CreatedAt
	r.resources[res.ID] = updated
	return nil
}

// Delete удаляет ресурс.
func (r *MemoryRepo) Delete(_ context.Context, service, kind string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok || res.Service != service || res.Kind != kind {
		return ErrNotFound
	}
	delete(r.resources, id)
	return nil
}

// nameTaken проверяет, занято ли имя другим ресурсом того же типа.
func (r *MemoryRepo) nameTaken(res *domain.Resource) bool {
	for id, other := range r.resources {
		if id != res.ID && other.Service == res.Service && other.Kind == res.Kind && other.Name == res.Name {
			return true
		}
	}
	return false
}

// compareKey сравнивает ресурс с курсором в порядке (created_at, id).
func compareKey(res domain.Resource, key domain.PageToken) int {
	if c := res.CreatedAt.Compare(key.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(res.ID[:], key.ID[:])
}

func clone(res domain.Resource) domain.Resource {
	res.Attributes = maps.Clone(res.Attributes)
	return res
}
