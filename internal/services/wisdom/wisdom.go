// Package wisdom описывает операции сервиса Wisdom.
package wisdom

import (
	"time"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/invoke"
)

// Service — имя сервиса на проводе.
var Service = catalog.Wisdom.Name

// KnowledgeBase — база знаний.
type KnowledgeBase struct {
	KnowledgeBaseID   string            `json:"knowledgeBaseId"`
	Arn               string            `json:"arn"`
	Name              string            `json:"name"`
	Status            string            `json:"status"`
	KnowledgeBaseType string            `json:"knowledgeBaseType,omitempty"`
	Description       string            `json:"description,omitempty"`
	TemplateURI       string            `json:"templateUri,omitempty"`
	Tags              map[string]string `json:"tags,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// CreateKnowledgeBaseRequest — запрос CreateKnowledgeBase.
type CreateKnowledgeBaseRequest struct {
	Name              *string           `json:"name,omitempty" param:"Name,required" desc:"The name of the knowledge base."`
	KnowledgeBaseType *string           `json:"knowledgeBaseType,omitempty" param:"KnowledgeBaseType,required" desc:"The type of knowledge base: EXTERNAL or CUSTOM."`
	Description       *string           `json:"description,omitempty" param:"Description" desc:"The description."`
	ClientToken       *string           `json:"clientToken,omitempty" param:"ClientToken" desc:"A unique, case-sensitive identifier that you provide to ensure the idempotency of the request."`
	Tags              map[string]string `json:"tags,omitempty" param:"Tag" desc:"The tags used to organize, track, or control access for this resource."`
}

// GetKnowledgeBaseRequest — запрос GetKnowledgeBase.
type GetKnowledgeBaseRequest struct {
	KnowledgeBaseID *string `json:"knowledgeBaseId,omitempty" param:"KnowledgeBaseId,required" desc:"The identifier of the knowledge base."`
}

// UpdateKnowledgeBaseRequest — запрос UpdateKnowledgeBase.
type UpdateKnowledgeBaseRequest struct {
	KnowledgeBaseID *string `json:"knowledgeBaseId,omitempty" param:"KnowledgeBaseId,required" desc:"The identifier of the knowledge base."`
	TemplateURI     *string `json:"templateUri,omitempty" param:"TemplateUri" desc:"The template URI to update."`
	Description     *string `json:"description,omitempty" param:"Description" desc:"The description."`
}

// DeleteKnowledgeBaseRequest — запрос DeleteKnowledgeBase.
type DeleteKnowledgeBaseRequest struct {
	KnowledgeBaseID *string `json:"knowledgeBaseId,omitempty" param:"KnowledgeBaseId,required" desc:"The identifier of the knowledge base."`
}

// ListKnowledgeBasesRequest — запрос ListKnowledgeBases.
type ListKnowledgeBasesRequest struct {
	MaxResults *int32  `json:"maxResults,omitempty" param:"MaxResult" desc:"The maximum number of results to return per page."`
	NextToken  *string `json:"nextToken,omitempty" param:"NextToken" desc:"The token for the next set of results."`
}

// KnowledgeBaseResponse — ответ Create/Get/UpdateKnowledgeBase.
type KnowledgeBaseResponse struct {
	KnowledgeBase *KnowledgeBase `json:"knowledgeBase"`
}

// ListKnowledgeBasesResponse — ответ ListKnowledgeBases.
type ListKnowledgeBasesResponse struct {
	KnowledgeBaseSummaries []KnowledgeBase `json:"knowledgeBases"`
	NextToken              string          `json:"nextToken,omitempty"`
}

// DeleteKnowledgeBaseResponse — ответ DeleteKnowledgeBase (пустой).
type DeleteKnowledgeBaseResponse struct{}

var (
	CreateKnowledgeBase = &invoke.Operation[CreateKnowledgeBaseRequest, KnowledgeBaseResponse]{
		Command:       "wisdom knowledge-base create",
		Service:       Service,
		Action:        "CreateKnowledgeBase",
		Mutating:      true,
		ConfirmParams: []string{"Name"},
		Default:       invoke.Field("KnowledgeBase"),
		PassThru:      "Name",
	}

	GetKnowledgeBase = &invoke.Operation[GetKnowledgeBaseRequest, KnowledgeBaseResponse]{
		Command:  "wisdom knowledge-base get",
		Service:  Service,
		Action:   "GetKnowledgeBase",
		Default:  invoke.Field("KnowledgeBase"),
		PassThru: "KnowledgeBaseId",
	}

	ListKnowledgeBases = &invoke.Operation[ListKnowledgeBasesRequest, ListKnowledgeBasesResponse]{
		Command:    "wisdom knowledge-base list",
		Service:    Service,
		Action:     "ListKnowledgeBases",
		Default:    invoke.Field("KnowledgeBaseSummaries"),
		TokenParam: "NextToken",
		NextToken:  func(r *ListKnowledgeBasesResponse) string { return r.NextToken },
	}

	UpdateKnowledgeBase = &invoke.Operation[UpdateKnowledgeBaseRequest, KnowledgeBaseResponse]{
		Command:       "wisdom knowledge-base update",
		Service:       Service,
		Action:        "UpdateKnowledgeBase",
		Mutating:      true,
		ConfirmParams: []string{"KnowledgeBaseId"},
		Default:       invoke.Field("KnowledgeBase"),
		PassThru:      "KnowledgeBaseId",
	}

	DeleteKnowledgeBase = &invoke.Operation[DeleteKnowledgeBaseRequest, DeleteKnowledgeBaseResponse]{
		Command:       "wisdom knowledge-base delete",
		Service:       Service,
		Action:        "DeleteKnowledgeBase",
		Mutating:      true,
		ConfirmParams: []string{"KnowledgeBaseId"},
		Default:       invoke.NoOutput(),
		PassThru:      "KnowledgeBaseId",
	}
)
