// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citeapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteMessage(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       string
	}{
		{
			name:       "detail string",
			statusCode: 422,
			body:       `{"detail": "year must be a 4-digit number"}`,
			want:       "year must be a 4-digit number",
		},
		{
			name:       "message field",
			statusCode: 500,
			body:       `{"message": "internal error"}`,
			want:       "internal error",
		},
		{
			name:       "detail wins over message",
			statusCode: 422,
			body:       `{"detail": "bad year", "message": "ignored"}`,
			want:       "bad year",
		},
		{
			name:       "structured detail marshaled",
			statusCode: 422,
			body:       `{"detail": [{"loc": ["metadata", "year"]}]}`,
			want:       `[{"loc":["metadata","year"]}]`,
		},
		{
			name:       "empty body falls back to status",
			statusCode: 502,
			body:       ``,
			want:       "citation service returned HTTP 502",
		},
		{
			name:       "non-JSON body falls back to status",
			statusCode: 503,
			body:       `<html>Bad Gateway</html>`,
			want:       "citation service returned HTTP 503",
		},
		{
			name:       "JSON with neither field falls back to status",
			statusCode: 400,
			body:       `{"error": "nope"}`,
			want:       "citation service returned HTTP 400",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remoteMessage(tt.statusCode, []byte(tt.body)))
		})
	}
}

func TestAPIErrorError(t *testing.T) {
	remote := &APIError{Kind: KindRemote, StatusCode: 422, Message: "bad year"}
	assert.Equal(t, "citation service error (HTTP 422): bad year", remote.Error())

	transport := &APIError{Kind: KindTransport, Message: "citation service unreachable"}
	assert.Equal(t, "citation service unreachable", transport.Error())
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &APIError{Kind: KindTransport, Message: "unreachable", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestKindHelpers(t *testing.T) {
	transport := fmt.Errorf("calling service: %w", &APIError{Kind: KindTransport, Message: "down"})
	assert.True(t, IsTransport(transport))
	assert.False(t, IsRemote(transport))
	assert.False(t, IsMalformed(transport))

	remote := &APIError{Kind: KindRemote, StatusCode: 422, Message: "bad year"}
	assert.True(t, IsRemote(remote))
	assert.False(t, IsTransport(remote))

	assert.False(t, IsTransport(errors.New("plain error")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "remote", KindRemote.String())
	assert.Equal(t, "malformed", KindMalformed.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
