package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Cloudlet/internal/domain"
)

// uniqueViolation — код ошибки Postgres при нарушении UNIQUE.
const uniqueViolation = "23505"

// ResourceRepo — репозиторий ресурсов всех сервисов.
type ResourceRepo struct {
	pool *pgxpool.Pool
}

// NewResourceRepo создаёт новый ResourceRepo.
func NewResourceRepo(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

// Create сохраняет новый ресурс.
func (r *ResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	attrsJSON, err := marshalAttributes(res.Attributes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (id, service, kind, name, status, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		res.ID,
		res.Service,
		res.Kind,
		res.Name,
		res.Status,
		attrsJSON,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// Get возвращает ресурс по ID в пределах сервиса и типа.
func (r *ResourceRepo) Get(ctx context.Context, service, kind string, id uuid.UUID) (*domain.Resource, error) {
	query := `
		SELECT id, service, kind, name, status, attributes, created_at, updated_at
		FROM resources
		WHERE service = $1 AND kind = $2 AND id = $3
	`
	return scanResource(r.pool.QueryRow(ctx, query, service, kind, id))
}

// List возвращает страницу ресурсов после курсора after (nil — с начала).
// Если есть следующая страница, возвращает её курсор.
func (r *ResourceRepo) List(ctx context.Context, service, kind string, limit int, after *domain.PageToken) ([]domain.Resource, *domain.PageToken, error) {
	var (
		afterCreated any
		afterID      any
	)
	if after != nil {
		afterCreated = after.CreatedAt
		afterID = after.ID
	}

	query := `
		SELECT id, service, kind, name, status, attributes, created_at, updated_at
		FROM resources
		WHERE service = $1 AND kind = $2
		  AND ($3::timestamptz IS NULL OR (created_at, id) > ($3::timestamptz, $4::uuid))
		ORDER BY created_at, id
		LIMIT $5
	`
	// Берём на одну запись больше, чтобы понять, есть ли следующая страница.
	rows, err := r.pool.Query(ctx, query, service, kind, afterCreated, afterID, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, nil, err
		}
		resources = append(resources, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list resources: %w", err)
	}

	if len(resources) <= limit {
		return resources, nil, nil
	}
	resources = resources[:limit]
	next := domain.TokenAfter(&resources[limit-1])
	return resources, &next, nil
}

// Update сохраняет имя, статус и атрибуты ресурса.
func (r *ResourceRepo) Update(ctx context.Context, res *domain.Resource) error {
	attrsJSON, err := marshalAttributes(res.Attributes)
	if err != nil {
		return err
	}

	query := `
		UPDATE resources
		SET name = $4, status = $5, attributes = $6, updated_at = $7
		WHERE service = $1 AND kind = $2 AND id = $3
	`
	result, err := r.pool.Exec(ctx, query,
		res.Service, res.Kind, res.ID,
		res.Name, res.Status, attrsJSON, res.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("update resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет ресурс.
func (r *ResourceRepo) Delete(ctx context.Context, service, kind string, id uuid.UUID) error {
	query := `DELETE FROM resources WHERE service = $1 AND kind = $2 AND id = $3`
	result, err := r.pool.Exec(ctx, query, service, kind, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		attrs = map[string]any{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	return data, nil
}

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	var attrsJSON []byte
	err := row.Scan(
		&res.ID,
		&res.Service,
		&res.Kind,
		&res.Name,
		&res.Status,
		&attrsJSON,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan resource: %w", err)
	}

	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &res.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}
	return &res, nil
}
