package domain

import "errors"

// Error taxonomy for the orchestration core. Callers match with errors.Is;
// raw vendor error text never crosses the orchestrator boundary.
var (
	// ErrProviderUnavailable: the network/auth call could not be completed
	// (includes timeouts). Retryable by the caller.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderRejected: the vendor returned a non-success status. Not
	// retryable without a config change.
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrMalformedResponse: the vendor response is missing expected fields.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrParseError: structured output is not valid JSON.
	ErrParseError = errors.New("provider output is not valid JSON")

	// ErrSchemaViolation: structured output parsed but required fields are
	// missing or of the wrong shape. The whole result is rejected; partial
	// case-study lists are never returned.
	ErrSchemaViolation = errors.New("provider output violates expected schema")

	// ErrPersistence: the session store write failed.
	ErrPersistence = errors.New("persistence failure")

	// ErrVersionConflict: a concurrent writer saved the session first.
	ErrVersionConflict = errors.New("session version conflict")

	// ErrPolicyBlocked: the request policy refused the call before dispatch.
	ErrPolicyBlocked = errors.New("request blocked by policy")
)

// ErrorKind maps a classified error to its short name for logs and
// exchange records.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, ErrProviderRejected):
		return "provider_rejected"
	case errors.Is(err, ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, ErrParseError):
		return "parse_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	case errors.Is(err, ErrPolicyBlocked):
		return "policy_blocked"
	default:
		return "internal"
	}
}
