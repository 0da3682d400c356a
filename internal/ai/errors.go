// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the Gemini API. The status code and
// body are kept so callers can classify the failure without re-parsing.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether the error indicates throttling or quota
// exhaustion. These are surfaced to the user with a distinct, actionable
// message and are never retried automatically.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests ||
		strings.Contains(apiErr.Body, "RESOURCE_EXHAUSTED") ||
		strings.Contains(apiErr.Body, "Quota")
}

// IsModelAccess reports whether the error indicates a missing, invalid, or
// insufficiently scoped credential. Callers reset their "credential present"
// state so the operator is prompted to reconfigure.
func IsModelAccess(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return strings.Contains(apiErr.Body, "Requested entity was not found") ||
		strings.Contains(apiErr.Body, "API key not valid")
}
