package service

import (
	"context"
	"strings"

	"golang.org/x/mod/semver"

	"credex/internal/presentation/models"
	dErrors "credex/pkg/domain-errors"
)

const minimumVersion = "v2.0.0"

// GateVersion checks the submission and its version header in a fixed order
// and reports the first failure. On success it stamps the header onto the
// submission, resolves the wire format and marks the context validated.
func GateVersion(_ context.Context, c *models.SubmitContext) error {
	sub := c.Submission
	if sub == nil {
		return dErrors.MissingField("data")
	}
	if models.IsAbsent(sub.PresentationRequestInfo) {
		return dErrors.MissingField("presentationRequestInfo")
	}
	if models.IsAbsent(sub.EncryptedPresentation) {
		return dErrors.MissingField("encryptedPresentation")
	}
	header := strings.TrimSpace(c.VersionHeader)
	if header == "" {
		return dErrors.MissingField("version header")
	}
	v, ok := canonical(header)
	if !ok {
		return dErrors.InvalidFormat("version header", "valid semver notation")
	}
	if semver.Compare(v, minimumVersion) < 0 {
		return dErrors.UnsupportedVersion("version header", "2.x.x or later")
	}

	sub.Version = header
	c.Format = formatOf(v)
	c.Validated = true
	return nil
}

// canonical accepts MAJOR.MINOR.PATCH with optional pre-release and build
// suffixes and an optional leading "v". Shorthand like "2" or "2.1" is rejected.
func canonical(s string) (string, bool) {
	v := s
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	core := strings.TrimSuffix(v, semver.Build(v))
	core = strings.TrimSuffix(core, semver.Prerelease(v))
	if strings.Count(core, ".") != 2 {
		return "", false
	}
	return v, true
}

func formatOf(v string) models.WireFormat {
	if semver.Major(v) == "v2" {
		return models.FormatV2
	}
	return models.FormatCurrent
}
