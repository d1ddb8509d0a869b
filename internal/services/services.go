// Package services holds one thin request builder per backend resource.
// Services shape parameters and unwrap typed responses; every call goes
// through a gateway.Doer, so session, error classification and contract
// validation happen in one place.
package services

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// DefaultPageSize is used when a caller passes a non-positive page size
const DefaultPageSize = 10

// PageRequest is the page cursor accepted by paginated endpoints
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) values() url.Values {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := p.Page
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// pathf formats a backend path. String and Stringer arguments are path-escaped;
// numbers are passed through so %d verbs keep working.
func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			escaped[i] = url.PathEscape(v)
		case fmt.Stringer:
			escaped[i] = url.PathEscape(v.String())
		default:
			if reflect.ValueOf(a).Kind() == reflect.String {
				escaped[i] = url.PathEscape(fmt.Sprint(a))
			} else {
				escaped[i] = a
			}
		}
	}
	return fmt.Sprintf(format, escaped...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
