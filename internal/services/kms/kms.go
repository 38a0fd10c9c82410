// Package kms описывает операции Key Management Service.
package kms

import (
	"time"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/invoke"
)

// Service — имя сервиса на проводе.
var Service = catalog.KMS.Name

// KeySpec — тип ключа.
type KeySpec string

const (
	KeySpecSymmetricDefault KeySpec = "SYMMETRIC_DEFAULT"
	KeySpecRSA2048          KeySpec = "RSA_2048"
	KeySpecRSA4096          KeySpec = "RSA_4096"
	KeySpecECCNistP256      KeySpec = "ECC_NIST_P256"
	KeySpecHMAC256          KeySpec = "HMAC_256"
)

// KeyUsage — криптографические операции, разрешённые ключу.
type KeyUsage string

const (
	KeyUsageEncryptDecrypt    KeyUsage = "ENCRYPT_DECRYPT"
	KeyUsageSignVerify        KeyUsage = "SIGN_VERIFY"
	KeyUsageGenerateVerifyMAC KeyUsage = "GENERATE_VERIFY_MAC"
)

// KeyMetadata — метаданные ключа.
type KeyMetadata struct {
	KeyID       string            `json:"keyId"`
	Arn         string            `json:"arn"`
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	Description string            `json:"description,omitempty"`
	KeyUsage    KeyUsage          `json:"keyUsage,omitempty"`
	KeySpec     KeySpec           `json:"keySpec,omitempty"`
	MultiRegion bool              `json:"multiRegion,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// CreateKeyRequest — запрос CreateKey.
type CreateKeyRequest struct {
	Name        *string           `json:"name,omitempty" param:"Name,required" desc:"The alias-like name of the KMS key."`
	Description *string           `json:"description,omitempty" param:"Description" desc:"A description of the KMS key."`
	KeyUsage    *KeyUsage         `json:"keyUsage,omitempty" param:"KeyUsage" desc:"Determines the cryptographic operations for which you can use the KMS key."`
	KeySpec     *KeySpec          `json:"keySpec,omitempty" param:"KeySpec" desc:"Specifies the type of KMS key to create."`
	MultiRegion *bool             `json:"multiRegion,omitempty" param:"MultiRegion" desc:"Creates a multi-Region primary key that you can replicate into other Regions."`
	Tags        map[string]string `json:"tags,omitempty" param:"Tag" desc:"Assigns one or more tags to the KMS key."`
}

// DescribeKeyRequest — запрос GetKey.
type DescribeKeyRequest struct {
	KeyID *string `json:"keyId,omitempty" param:"KeyId,required" desc:"Describes the specified KMS key."`
}

// UpdateKeyRequest — запрос UpdateKey.
type UpdateKeyRequest struct {
	KeyID       *string `json:"keyId,omitempty" param:"KeyId,required" desc:"Updates the description of the specified KMS key."`
	Description *string `json:"description,omitempty" param:"Description" desc:"New description for the KMS key."`
	Status      *string `json:"status,omitempty" param:"Status" desc:"Key state: ACTIVE or DISABLED."`
}

// DeleteKeyRequest — запрос DeleteKey.
type DeleteKeyRequest struct {
	KeyID *string `json:"keyId,omitempty" param:"KeyId,required" desc:"The unique identifier of the KMS key to delete."`
}

// ListKeysRequest — запрос ListKeys.
type ListKeysRequest struct {
	Limit  *int32  `json:"maxResults,omitempty" param:"Limit" desc:"Use this parameter to specify the maximum number of items to return."`
	Marker *string `json:"nextToken,omitempty" param:"Marker" desc:"Use this parameter in a subsequent request after you receive a response with truncated results."`
}

// KeyResponse — ответ Create/Get/UpdateKey.
type KeyResponse struct {
	KeyMetadata *KeyMetadata `json:"key"`
}

// ListKeysResponse — ответ ListKeys.
type ListKeysResponse struct {
	Keys       []KeyMetadata `json:"keys"`
	NextMarker string        `json:"nextToken,omitempty"`
}

// DeleteKeyResponse — ответ DeleteKey (пустой).
type DeleteKeyResponse struct{}

var (
	CreateKey = &invoke.Operation[CreateKeyRequest, KeyResponse]{
		Command:       "kms key create",
		Service:       Service,
		Action:        "CreateKey",
		Mutating:      true,
		ConfirmParams: []string{"Name"},
		Default:       invoke.Field("KeyMetadata"),
		PassThru:      "Name",
	}

	DescribeKey = &invoke.Operation[DescribeKeyRequest, KeyResponse]{
		Command:  "kms key get",
		Service:  Service,
		Action:   "GetKey",
		Default:  invoke.Field("KeyMetadata"),
		PassThru: "KeyId",
	}

	// ListKeys пагинируется по Marker/NextMarker.
	ListKeys = &invoke.Operation[ListKeysRequest, ListKeysResponse]{
		Command:    "kms key list",
		Service:    Service,
		Action:     "ListKeys",
		Default:    invoke.Field("Keys"),
		TokenParam: "Marker",
		NextToken:  func(r *ListKeysResponse) string { return r.NextMarker },
	}

	UpdateKey = &invoke.Operation[UpdateKeyRequest, KeyResponse]{
		Command:       "kms key update",
		Service:       Service,
		Action:        "UpdateKey",
		Mutating:      true,
		ConfirmParams: []string{"KeyId"},
		Default:       invoke.Field("KeyMetadata"),
		PassThru:      "KeyId",
	}

	DeleteKey = &invoke.Operation[DeleteKeyRequest, DeleteKeyResponse]{
		Command:       "kms key delete",
		Service:       Service,
		Action:        "DeleteKey",
		Mutating:      true,
		ConfirmParams: []string{"KeyId"},
		Default:       invoke.NoOutput(),
		PassThru:      "KeyId",
	}
)
