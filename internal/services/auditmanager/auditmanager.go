// Package auditmanager описывает операции сервиса Audit Manager.
package auditmanager

import (
	"time"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/invoke"
)

// Service — имя сервиса на проводе.
var Service = catalog.AuditManager.Name

// --- Control ---

// Control — контроль аудита.
type Control struct {
	ControlID              string            `json:"controlId"`
	Arn                    string            `json:"arn"`
	Name                   string            `json:"name"`
	Status                 string            `json:"status"`
	Description            string            `json:"description,omitempty"`
	TestingInformation     string            `json:"testingInformation,omitempty"`
	ActionPlanTitle        string            `json:"actionPlanTitle,omitempty"`
	ActionPlanInstructions string            `json:"actionPlanInstructions,omitempty"`
	Tags                   map[string]string `json:"tags,omitempty"`
	CreatedAt              time.Time         `json:"createdAt"`
	UpdatedAt              time.Time         `json:"updatedAt"`
}

// CreateControlRequest — запрос CreateControl.
type CreateControlRequest struct {
	Name                   *string           `json:"name,omitempty" param:"Name,required" desc:"The name of the control."`
	Description            *string           `json:"description,omitempty" param:"Description" desc:"The description of the control."`
	TestingInformation     *string           `json:"testingInformation,omitempty" param:"TestingInformation" desc:"The steps to follow to determine if the control is satisfied."`
	ActionPlanTitle        *string           `json:"actionPlanTitle,omitempty" param:"ActionPlanTitle" desc:"The title of the action plan for remediating the control."`
	ActionPlanInstructions *string           `json:"actionPlanInstructions,omitempty" param:"ActionPlanInstructions" desc:"The recommended actions to carry out if the control isn't fulfilled."`
	Tags                   map[string]string `json:"tags,omitempty" param:"Tag" desc:"The tags associated with the control."`
}

// GetControlRequest — запрос GetControl.
type GetControlRequest struct {
	ControlID *string `json:"controlId,omitempty" param:"ControlId,required" desc:"The identifier for the control."`
}

// UpdateControlRequest — запрос UpdateControl.
type UpdateControlRequest struct {
	ControlID              *string `json:"controlId,omitempty" param:"ControlId,required" desc:"The identifier for the control."`
	Name                   *string `json:"name,omitempty" param:"Name" desc:"The name of the updated control."`
	Description            *string `json:"description,omitempty" param:"Description" desc:"The optional description of the control."`
	TestingInformation     *string `json:"testingInformation,omitempty" param:"TestingInformation" desc:"The steps that you should follow to determine if the control is met."`
	ActionPlanTitle        *string `json:"actionPlanTitle,omitempty" param:"ActionPlanTitle" desc:"The title of the action plan for remediating the control."`
	ActionPlanInstructions *string `json:"actionPlanInstructions,omitempty" param:"ActionPlanInstructions" desc:"The recommended actions to carry out if the control isn't fulfilled."`
}

// DeleteControlRequest — запрос DeleteControl.
type DeleteControlRequest struct {
	ControlID *string `json:"controlId,omitempty" param:"ControlId,required" desc:"The unique identifier for the control."`
}

// ListControlsRequest — запрос ListControls.
type ListControlsRequest struct {
	MaxResults *int32  `json:"maxResults,omitempty" param:"MaxResult" desc:"Represents the maximum number of results on a page or for an API request call."`
	NextToken  *string `json:"nextToken,omitempty" param:"NextToken" desc:"The pagination token that's used to fetch the next set of results."`
}

// ControlResponse — ответ Create/Get/UpdateControl.
type ControlResponse struct {
	Control *Control `json:"control"`
}

// ListControlsResponse — ответ ListControls.
type ListControlsResponse struct {
	Controls  []Control `json:"controls"`
	NextToken string    `json:"nextToken,omitempty"`
}

// DeleteControlResponse — ответ DeleteControl (пустой).
type DeleteControlResponse struct{}

var (
	CreateControl = &invoke.Operation[CreateControlRequest, ControlResponse]{
		Command:       "auditmanager control create",
		Service:       Service,
		Action:        "CreateControl",
		Mutating:      true,
		ConfirmParams: []string{"Name"},
		Default:       invoke.Field("Control"),
		PassThru:      "Name",
	}

	GetControl = &invoke.Operation[GetControlRequest, ControlResponse]{
		Command:  "auditmanager control get",
		Service:  Service,
		Action:   "GetControl",
		Default:  invoke.Field("Control"),
		PassThru: "ControlId",
	}

	ListControls = &invoke.Operation[ListControlsRequest, ListControlsResponse]{
		Command:    "auditmanager control list",
		Service:    Service,
		Action:     "ListControls",
		Default:    invoke.Field("Controls"),
		TokenParam: "NextToken",
		NextToken:  func(r *ListControlsResponse) string { return r.NextToken },
	}

	UpdateControl = &invoke.Operation[UpdateControlRequest, ControlResponse]{
		Command:       "auditmanager control update",
		Service:       Service,
		Action:        "UpdateControl",
		Mutating:      true,
		ConfirmParams: []string{"ControlId"},
		Default:       invoke.Field("Control"),
		PassThru:      "ControlId",
	}

	DeleteControl = &invoke.Operation[DeleteControlRequest, DeleteControlResponse]{
		Command:       "auditmanager control delete",
		Service:       Service,
		Action:        "DeleteControl",
		Mutating:      true,
		ConfirmParams: []string{"ControlId"},
		Default:       invoke.NoOutput(),
		PassThru:      "ControlId",
	}
)

// --- Assessment ---

// Assessment — оценка соответствия.
type Assessment struct {
	AssessmentID string            `json:"assessmentId"`
	Arn          string            `json:"arn"`
	Name         string            `json:"name"`
	Status       string            `json:"status"`
	Description  string            `json:"description,omitempty"`
	FrameworkID  string            `json:"frameworkId,omitempty"`
	ReportsS3URI string            `json:"reportsDestination,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// CreateAssessmentRequest — запрос CreateAssessment.
type CreateAssessmentRequest struct {
	Name         *string           `json:"name,omitempty" param:"Name,required" desc:"The name of the assessment to be created."`
	Description  *string           `json:"description,omitempty" param:"Description" desc:"The optional description for the assessment to be created."`
	FrameworkID  *string           `json:"frameworkId,omitempty" param:"FrameworkId,required" desc:"The identifier for the framework that the assessment will be created from."`
	ReportsS3URI *string           `json:"reportsDestination,omitempty" param:"ReportsDestination" desc:"The destination bucket where Audit Manager stores assessment reports."`
	Tags         map[string]string `json:"tags,omitempty" param:"Tag" desc:"The tags that are associated with the assessment."`
}

// GetAssessmentRequest — запрос GetAssessment.
type GetAssessmentRequest struct {
	AssessmentID *string `json:"assessmentId,omitempty" param:"AssessmentId,required" desc:"The unique identifier for the assessment."`
}

// UpdateAssessmentRequest — запрос UpdateAssessment.
type UpdateAssessmentRequest struct {
	AssessmentID *string `json:"assessmentId,omitempty" param:"AssessmentId,required" desc:"The unique identifier for the assessment."`
	Name         *string `json:"name,omitempty" param:"AssessmentName" desc:"The name of the assessment to be updated."`
	Description  *string `json:"description,omitempty" param:"AssessmentDescription" desc:"The description of the assessment."`
	Status       *string `json:"status,omitempty" param:"Status" desc:"The current status of the assessment: ACTIVE or DISABLED."`
}

// DeleteAssessmentRequest — запрос DeleteAssessment.
type DeleteAssessmentRequest struct {
	AssessmentID *string `json:"assessmentId,omitempty" param:"AssessmentId,required" desc:"The identifier for the assessment."`
}

// ListAssessmentsRequest — запрос ListAssessments.
type ListAssessmentsRequest struct {
	MaxResults *int32  `json:"maxResults,omitempty" param:"MaxResult" desc:"Represents the maximum number of results on a page or for an API request call."`
	NextToken  *string `json:"nextToken,omitempty" param:"NextToken" desc:"The pagination token that's used to fetch the next set of results."`
}

// AssessmentResponse — ответ Create/Get/UpdateAssessment.
type AssessmentResponse struct {
	Assessment *Assessment `json:"assessment"`
}

// ListAssessmentsResponse — ответ ListAssessments.
type ListAssessmentsResponse struct {
	Assessments []Assessment `json:"assessments"`
	NextToken   string       `json:"nextToken,omitempty"`
}

// DeleteAssessmentResponse — ответ DeleteAssessment (пустой).
type DeleteAssessmentResponse struct{}

var (
	CreateAssessment = &invoke.Operation[CreateAssessmentRequest, AssessmentResponse]{
		Command:       "auditmanager assessment create",
		Service:       Service,
		Action:        "CreateAssessment",
		Mutating:      true,
		ConfirmParams: []string{"Name"},
		Default:       invoke.Field("Assessment"),
		PassThru:      "Name",
	}

	GetAssessment = &invoke.Operation[GetAssessmentRequest, AssessmentResponse]{
		Command:  "auditmanager assessment get",
		Service:  Service,
		Action:   "GetAssessment",
		Default:  invoke.Field("Assessment"),
		PassThru: "AssessmentId",
	}

	ListAssessments = &invoke.Operation[ListAssessmentsRequest, ListAssessmentsResponse]{
		Command:    "auditmanager assessment list",
		Service:    Service,
		Action:     "ListAssessments",
		Default:    invoke.Field("Assessments"),
		TokenParam: "NextToken",
		NextToken:  func(r *ListAssessmentsResponse) string { return r.NextToken },
	}

	UpdateAssessment = &invoke.Operation[UpdateAssessmentRequest, AssessmentResponse]{
		Command:       "auditmanager assessment update",
		Service:       Service,
		Action:        "UpdateAssessment",
		Mutating:      true,
		ConfirmParams: []string{"AssessmentId"},
		Default:       invoke.Field("Assessment"),
		PassThru:      "AssessmentId",
	}

	DeleteAssessment = &invoke.Operation[DeleteAssessmentRequest, DeleteAssessmentResponse]{
		Command:       "auditmanager assessment delete",
		Service:       Service,
		Action:        "DeleteAssessment",
		Mutating:      true,
		ConfirmParams: []string{"AssessmentId"},
		Default:       invoke.NoOutput(),
		PassThru:      "AssessmentId",
	}
)
