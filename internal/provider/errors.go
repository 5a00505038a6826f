package provider

import (
	"fmt"
	"net/http"
)

// Kind classifies adapter failures into a closed set so the gateway can
// switch on variants instead of pattern-matching free-form error text.
type Kind string

const (
	KindInvalidCredential Kind = "invalid_credential"
	KindRateLimited       Kind = "rate_limited"
	KindContentBlocked    Kind = "content_blocked"
	KindNetworkFailure    Kind = "network_failure"
	KindBadResponse       Kind = "bad_response"
	KindUpstream          Kind = "upstream"
	KindUnknown           Kind = "unknown"
)

// Error is the tagged failure every adapter returns. Raw carries the
// upstream error envelope untransformed; Status is the upstream HTTP status
// when one was received (zero for connection-level failures).
type Error struct {
	Provider string
	Kind     Kind
	Status   int
	Raw      string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Provider, e.Kind, e.Status, e.Raw)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Raw)
}

// classifyStatus maps an upstream HTTP status to an error kind.
func classifyStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindInvalidCredential
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindUpstream
	}
}

// netError wraps a connection-level failure (DNS, TLS, timeout) that never
// produced an HTTP response.
func netError(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindNetworkFailure, Raw: err.Error()}
}

func upstreamError(provider string, status int, raw string) *Error {
	return &Error{Provider: provider, Kind: classifyStatus(status), Status: status, Raw: raw}
}
