package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourceStatus — состояние ресурса.
//
// Жизненный цикл:
//
//	ACTIVE ⇄ DISABLED
type ResourceStatus string

const (
	// ResourceStatusActive — ресурс создан и доступен.
	ResourceStatusActive ResourceStatus = "ACTIVE"

	// ResourceStatusDisabled — ресурс отключён (например, ключ KMS).
	ResourceStatusDisabled ResourceStatus = "DISABLED"
)

// IsValid проверяет, что статус известен.
func (s ResourceStatus) IsValid() bool {
	return s == ResourceStatusActive || s == ResourceStatusDisabled
}

// Resource — ресурс облачного сервиса в reference backend'е.
//
// Backend не знает схем конкретных сервисов: всё, кроме имени и
// статуса, хранится в Attributes как есть (JSONB).
type Resource struct {
	// ID — уникальный идентификатор ресурса.
	ID uuid.UUID `json:"id"`

	// Service — имя сервиса ("auditmanager").
	Service string `json:"service"`

	// Kind — тип ресурса ("Control").
	Kind string `json:"kind"`

	// Name — имя ресурса, уникальное в пределах сервиса и типа.
	Name string `json:"name"`

	// Status — текущее состояние.
	Status ResourceStatus `json:"status"`

	// Attributes — остальные поля запроса на создание/обновление.
	Attributes map[string]any `json:"attributes,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// ARN возвращает идентификатор ресурса в формате ARN.
func (r *Resource) ARN(region string) string {
	return fmt.Sprintf("arn:cloudlet:%s:%s:%s/%s", r.Service, region, strings.ToLower(r.Kind), r.ID)
}

// Merge применяет обновление атрибутов. Ключ со значением nil удаляет атрибут.
func (r *Resource) Merge(attrs map[string]any) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]any, len(attrs))
	}
	for k, v := range attrs {
		if v == nil {
			delete(r.Attributes, k)
			continue
		}
		r.Attributes[k] = v
	}
}
