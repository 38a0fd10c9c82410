// Package mediapipelines описывает операции сервиса Media Pipelines.
package mediapipelines

import (
	"time"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/invoke"
)

// Service — имя сервиса на проводе.
var Service = catalog.MediaPipelines.Name

// MediaPipeline — конвейер захвата медиа.
type MediaPipeline struct {
	MediaPipelineID string            `json:"mediaPipelineId"`
	Arn             string            `json:"arn"`
	Name            string            `json:"name"`
	Status          string            `json:"status"`
	SourceType      string            `json:"sourceType,omitempty"`
	SourceArn       string            `json:"sourceArn,omitempty"`
	SinkType        string            `json:"sinkType,omitempty"`
	SinkArn         string            `json:"sinkArn,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// MediaPipelineSummary — элемент списка конвейеров.
type MediaPipelineSummary struct {
	MediaPipelineID string `json:"mediaPipelineId"`
	Arn             string `json:"arn"`
	Name            string `json:"name"`
	Status          string `json:"status"`
}

// CreateMediaPipelineRequest — запрос CreateMediaPipeline.
type CreateMediaPipelineRequest struct {
	Name       *string           `json:"name,omitempty" param:"Name,required" desc:"The name of the media pipeline."`
	SourceType *string           `json:"sourceType,omitempty" param:"SourceType,required" desc:"Source type from which the media artifacts are captured."`
	SourceArn  *string           `json:"sourceArn,omitempty" param:"SourceArn,required" desc:"ARN of the source from which the media artifacts are captured."`
	SinkType   *string           `json:"sinkType,omitempty" param:"SinkType,required" desc:"Destination type to which the media artifacts are saved."`
	SinkArn    *string           `json:"sinkArn,omitempty" param:"SinkArn,required" desc:"The ARN of the sink type."`
	Tags       map[string]string `json:"tags,omitempty" param:"Tag" desc:"The tag key-value pairs."`
}

// GetMediaPipelineRequest — запрос GetMediaPipeline.
type GetMediaPipelineRequest struct {
	MediaPipelineID *string `json:"mediaPipelineId,omitempty" param:"MediaPipelineId,required" desc:"The ID of the pipeline that you want to get."`
}

// DeleteMediaPipelineRequest — запрос DeleteMediaPipeline.
type DeleteMediaPipelineRequest struct {
	MediaPipelineID *string `json:"mediaPipelineId,omitempty" param:"MediaPipelineId,required" desc:"The ID of the media pipeline to delete."`
}

// ListMediaPipelinesRequest — запрос ListMediaPipelines.
type ListMediaPipelinesRequest struct {
	MaxResults *int32  `json:"maxResults,omitempty" param:"MaxResult" desc:"The maximum number of results to return in a single call. Valid Range: 1 - 100."`
	NextToken  *string `json:"nextToken,omitempty" param:"NextToken" desc:"The token used to retrieve the next page of results."`
}

// MediaPipelineResponse — ответ Create/GetMediaPipeline.
type MediaPipelineResponse struct {
	MediaPipeline *MediaPipeline `json:"mediaPipeline"`
}

// ListMediaPipelinesResponse — ответ ListMediaPipelines.
type ListMediaPipelinesResponse struct {
	MediaPipelines []MediaPipelineSummary `json:"mediaPipelines"`
	NextToken      string                 `json:"nextToken,omitempty"`
}

// DeleteMediaPipelineResponse — ответ DeleteMediaPipeline (пустой).
type DeleteMediaPipelineResponse struct{}

var (
	CreateMediaPipeline = &invoke.Operation[CreateMediaPipelineRequest, MediaPipelineResponse]{
		Command:       "mediapipelines media-pipeline create",
		Service:       Service,
		Action:        "CreateMediaPipeline",
		Mutating:      true,
		ConfirmParams: []string{"Name"},
		Default:       invoke.Field("MediaPipeline"),
		PassThru:      "Name",
	}

	GetMediaPipeline = &invoke.Operation[GetMediaPipelineRequest, MediaPipelineResponse]{
		Command:  "mediapipelines media-pipeline get",
		Service:  Service,
		Action:   "GetMediaPipeline",
		Default:  invoke.Field("MediaPipeline"),
		PassThru: "MediaPipelineId",
	}

	ListMediaPipelines = &invoke.Operation[ListMediaPipelinesRequest, ListMediaPipelinesResponse]{
		Command:    "mediapipelines media-pipeline list",
		Service:    Service,
		Action:     "ListMediaPipelines",
		Default:    invoke.Field("MediaPipelines"),
		TokenParam: "NextToken",
		NextToken:  func(r *ListMediaPipelinesResponse) string { return r.NextToken },
	}

	DeleteMediaPipeline = &invoke.Operation[DeleteMediaPipelineRequest, DeleteMediaPipelineResponse]{
		Command:       "mediapipelines media-pipeline delete",
		Service:       Service,
		Action:        "DeleteMediaPipeline",
		Mutating:      true,
		ConfirmParams: []string{"MediaPipelineId"},
		Default:       invoke.NoOutput(),
		PassThru:      "MediaPipelineId",
	}
)
