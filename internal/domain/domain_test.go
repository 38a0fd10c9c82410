package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPageToken_RoundTrip(t *testing.T) {
	r := &Resource{ID: uuid.New(), CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	encoded := TokenAfter(r).Encode()
	if strings.ContainsAny(encoded, "+/=") {
		t.Errorf("token should be url-safe, got %s", encoded)
	}

	decoded, err := DecodePageToken(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.ID != r.ID || !decoded.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("expected %v/%v, got %v/%v", r.ID, r.CreatedAt, decoded.ID, decoded.CreatedAt)
	}
}

func TestDecodePageToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "!!!"},
		{name: "not json", token: "bm90LWpzb24"},
		{name: "empty cursor", token: PageToken{}.Encode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePageToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestResource_Merge(t *testing.T) {
	r := &Resource{Attributes: map[string]any{"description": "old", "owner": "team-a"}}
	r.Merge(map[string]any{"description": "new", "owner": nil, "tier": "gold"})

	if r.Attributes["description"] != "new" || r.Attributes["tier"] != "gold" {
		t.Errorf("unexpected attributes %v", r.Attributes)
	}
	if _, ok := r.Attributes["owner"]; ok {
		t.Error("nil value should remove attribute")
	}
}

func TestResource_ARN(t *testing.T) {
	id := uuid.MustParse("6f1c1f4e-1b7b-4a4f-9e2f-0c8f3f1f2a10")
	r := &Resource{ID: id, Service: "kms", Kind: "Key"}
	want := "arn:cloudlet:kms:eu-central-1:key/6f1c1f4e-1b7b-4a4f-9e2f-0c8f3f1f2a10"
	if got := r.ARN("eu-central-1"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !ResourceStatusActive.IsValid() || ResourceStatus("GONE").IsValid() {
		t.Error("unexpected IsValid result")
	}
}
