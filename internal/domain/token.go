package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidToken — continuation token не удалось разобрать.
var ErrInvalidToken = errors.New("invalid continuation token")

// PageToken — курсор keyset-пагинации по (created_at, id).
//
// Для клиента token непрозрачен: base64url от JSON.
type PageToken struct {
	CreatedAt time.Time `json:"c"`
	ID        uuid.UUID `json:"i"`
}

// TokenAfter возвращает курсор, указывающий на ресурс r.
func TokenAfter(r *Resource) PageToken {
	return PageToken{CreatedAt: r.CreatedAt, ID: r.ID}
}

// Encode кодирует token в строку.
func (t PageToken) Encode() string {
	data, _ := json.Marshal(t)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodePageToken разбирает token. Пустая строка — это не token.
func DecodePageToken(s string) (*PageToken, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var t PageToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, ErrInvalidToken
	}
	if t.ID == uuid.Nil || t.CreatedAt.IsZero() {
		return nil, ErrInvalidToken
	}
	return &t, nil
}
