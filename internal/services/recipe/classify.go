package recipe

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/services/openai"
)

const (
	codeInsufficientQuota = "insufficient_quota"
	codeInvalidAPIKey     = "invalid_api_key"
)

// ErrorDescription is the normalized view of a primary-provider failure
// that the fallback decision is made on.
type ErrorDescription struct {
	StatusCode        int
	Code              string
	Message           string
	Unusable          bool // the provider answered but gave nothing parseable
	PrimaryConfigured bool
}

// Describe flattens err into an ErrorDescription. A nil err describes the
// missing-credential short circuit.
func Describe(err error, primaryConfigured bool) ErrorDescription {
	d := ErrorDescription{PrimaryConfigured: primaryConfigured}
	if err == nil {
		return d
	}

	d.Message = err.Error()

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		d.StatusCode = apiErr.StatusCode
		d.Code = apiErr.Code
		if d.Code == "" {
			d.Code = apiErr.Type
		}
	}

	d.Unusable = errors.IsType(err, errors.ErrorTypeParse) || errors.IsType(err, errors.ErrorTypeGeneration)
	return d
}

// IsQuotaOrUnavailable decides whether a failure is absorbed by the
// fallback chain instead of being reported to the caller.
func IsQuotaOrUnavailable(d ErrorDescription) bool {
	return d.Reason() != ""
}

// Reason names the first matching fallback trigger, or "" when the failure
// must surface.
func (d ErrorDescription) Reason() string {
	switch {
	case !d.PrimaryConfigured:
		return "missing_credentials"
	case d.StatusCode == http.StatusTooManyRequests:
		return "rate_limit"
	case d.Code == codeInsufficientQuota:
		return "insufficient_quota"
	case d.Code == codeInvalidAPIKey:
		return "invalid_credentials"
	case strings.Contains(strings.ToLower(d.Message), "quota"):
		return "quota"
	case d.Unusable:
		return "unusable_response"
	default:
		return ""
	}
}
