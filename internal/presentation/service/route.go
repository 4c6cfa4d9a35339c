package service

import (
	"encoding/json"

	"credex/internal/presentation/models"
	dErrors "credex/pkg/domain-errors"
)

// v2 payloads identify the presentation request by uuid.
type v2RequestInfo struct {
	PresentationRequest struct {
		UUID string `json:"uuid"`
	} `json:"presentationRequest"`
}

// Current payloads carry an id, with uuid kept for older verifiers.
type currentRequestInfo struct {
	PresentationRequest struct {
		ID   string `json:"id"`
		UUID string `json:"uuid"`
	} `json:"presentationRequest"`
}

// presentationRequestID reads the referenced presentation request id using the
// shape fixed by format.
func presentationRequestID(format models.WireFormat, raw json.RawMessage) (string, error) {
	switch format {
	case models.FormatV2:
		var info v2RequestInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return "", dErrors.InvalidFormat("presentationRequestInfo", "the v2 presentation request shape")
		}
		return info.PresentationRequest.UUID, nil
	case models.FormatCurrent:
		var info currentRequestInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return "", dErrors.InvalidFormat("presentationRequestInfo", "the current presentation request shape")
		}
		if info.PresentationRequest.ID != "" {
			return info.PresentationRequest.ID, nil
		}
		return info.PresentationRequest.UUID, nil
	default:
		return "", dErrors.New(dErrors.CodePrecondition, "unresolved wire format "+string(format))
	}
}
