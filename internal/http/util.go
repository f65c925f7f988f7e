package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParseLimitOffset parses common pagination params and clamps to sane bounds.
// Limits above maxLimit are clamped, never rejected.
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}

// validationErrorPatterns are substrings the service layer uses in its
// input validation messages. Matching one classifies the failure as a
// client error.
var validationErrorPatterns = []string{ //nolint:gochecknoglobals // read-only pattern table
	"is required",
	"cannot be empty",
	"cannot exceed",
	"at least one field must be updated",
	"must be a valid address",
	"must be at least",
	"must be between",
	"must be non-negative",
	"must be one of:",
}

// isValidationError decides 400 vs 5xx for service errors.
// A stopgap until typed validation errors exist in the service layer.
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range validationErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
