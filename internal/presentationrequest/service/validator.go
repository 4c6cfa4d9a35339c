package service

import (
	"context"

	"credex/internal/presentationrequest/models"
	dErrors "credex/pkg/domain-errors"
)

// ValidateRequest checks the creation input in a fixed order and reports the
// first missing field. On success it marks the context validated.
func ValidateRequest(_ context.Context, c *models.CreateContext) error {
	in := c.Input
	if in == nil {
		return dErrors.MissingField("data")
	}
	if in.HolderAppUUID == "" {
		return dErrors.MissingField("holderAppUuid")
	}
	if in.CredentialRequests == nil {
		return dErrors.MissingField("credentialRequests")
	}
	for _, cr := range in.CredentialRequests {
		if cr.Type == "" {
			return dErrors.MissingField("credentialRequest type")
		}
		if len(cr.Issuers) == 0 {
			return dErrors.MissingField("credentialRequest issuers")
		}
	}
	c.Validated = true
	return nil
}
