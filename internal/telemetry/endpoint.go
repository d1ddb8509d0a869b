package telemetry

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// EndpointTemplate replaces id-like path segments with {id} so metric series stay bounded
func EndpointTemplate(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = "{id}"
			continue
		}
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// ErrorClass groups status codes into a handful of error types
func ErrorClass(status int) string {
	switch {
	case status < 400:
		return ""
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status < 500:
		return "bad_request"
	default:
		return "internal_error"
	}
}
