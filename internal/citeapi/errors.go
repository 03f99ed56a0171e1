// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies a failed service call. Every error leaving this
// package is one of these three kinds; callers never see raw transport
// errors.
type ErrorKind int

const (
	// KindTransport means no response was received: the service is
	// unreachable, DNS failed, or the request timed out.
	KindTransport ErrorKind = iota + 1

	// KindRemote means the service answered with a non-2xx status and a
	// reported message. The message is surfaced verbatim.
	KindRemote

	// KindMalformed means a 2xx response was missing expected fields or
	// could not be decoded.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRemote:
		return "remote"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// APIError is a classified failure from the citation service client.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // 0 unless Kind is KindRemote
	Message    string
	Err        error // underlying cause, if any
}

func (e *APIError) Error() string {
	if e.Kind == KindRemote && e.StatusCode > 0 {
		return fmt.Sprintf("citation service error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a connection-level failure, so the UI
// can suggest checking that the service is reachable.
func IsTransport(err error) bool { return hasKind(err, KindTransport) }

// IsRemote reports whether err carries a service-reported message.
func IsRemote(err error) bool { return hasKind(err, KindRemote) }

// IsMalformed reports whether err is an unexpected response shape.
func IsMalformed(err error) bool { return hasKind(err, KindMalformed) }

func hasKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// remoteMessage extracts the human-readable message from an error response
// body. The service reports errors under either "detail" or "message";
// detail wins when both are present. Bodies with neither fall back to a
// generic string so nothing is silently swallowed.
func remoteMessage(statusCode int, body []byte) string {
	var payload struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != nil {
			if b, err := json.Marshal(payload.Detail); err == nil {
				return string(b)
			}
		}
	}
	return fmt.Sprintf("citation service returned HTTP %d", statusCode)
}
