package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credex/internal/presentationrequest/models"
	dErrors "credex/pkg/domain-errors"
)

func validInput() *models.CreateInput {
	return &models.CreateInput{
		CredentialRequests: []models.CredentialRequest{
			{Type: "Email", Issuers: []string{"did:unum:issuer1"}},
		},
		HolderAppUUID: "app-123",
	}
}

func TestValidateRequest_FirstMissingFieldWins(t *testing.T) {
	tests := []struct {
		name    string
		input   *models.CreateInput
		message string
	}{
		{
			name:    "nil input",
			input:   nil,
			message: "data is required",
		},
		{
			name:    "holderAppUuid reported before credentialRequests",
			input:   &models.CreateInput{},
			message: "holderAppUuid is required",
		},
		{
			name:    "credentialRequests absent",
			input:   &models.CreateInput{HolderAppUUID: "app-123"},
			message: "credentialRequests is required",
		},
		{
			name: "type reported before issuers",
			input: &models.CreateInput{
				HolderAppUUID:      "app-123",
				CredentialRequests: []models.CredentialRequest{{}},
			},
			message: "credentialRequest type is required",
		},
		{
			name: "empty issuers",
			input: &models.CreateInput{
				HolderAppUUID:      "app-123",
				CredentialRequests: []models.CredentialRequest{{Type: "Email", Issuers: []string{}}},
			},
			message: "credentialRequest issuers is required",
		},
		{
			name: "first bad request in array order",
			input: &models.CreateInput{
				HolderAppUUID: "app-123",
				CredentialRequests: []models.CredentialRequest{
					{Type: "Email", Issuers: []string{"did:unum:issuer1"}},
					{Type: "Phone"},
					{Issuers: []string{"did:unum:issuer2"}},
				},
			},
			message: "credentialRequest issuers is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.CreateContext{Input: tt.input}
			err := ValidateRequest(context.Background(), c)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.False(t, c.Validated)
		})
	}
}

func TestValidateRequest_MarksContext(t *testing.T) {
	c := &models.CreateContext{Input: validInput()}
	require.NoError(t, ValidateRequest(context.Background(), c))
	assert.True(t, c.Validated)
	assert.Nil(t, c.Result, "validation has no other side effect")
}

func TestValidateRequest_EmptyCredentialRequestsPass(t *testing.T) {
	c := &models.CreateContext{Input: &models.CreateInput{
		HolderAppUUID:      "app-123",
		CredentialRequests: []models.CredentialRequest{},
	}}
	require.NoError(t, ValidateRequest(context.Background(), c))
	assert.True(t, c.Validated)
}
